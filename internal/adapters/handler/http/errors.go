package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

const dateLayout = "2006-01-02"

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrSnapshotNotFound),
		errors.Is(err, domain.ErrChartBlockAbsent):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFileExists), errors.Is(err, domain.ErrFolderExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidLimit), errors.Is(err, domain.ErrCategoryEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPathOutsideVault):
		c.JSON(http.StatusForbidden, gin.H{"error": "path outside vault"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// dateParam reads ?date=YYYY-MM-DD in the clock's zone, falling back to now.
func dateParam(c *gin.Context, now func() time.Time) (time.Time, bool) {
	current := now()
	raw := c.Query("date")
	if raw == "" {
		return current, true
	}
	d, err := time.ParseInLocation(dateLayout, raw, current.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}
