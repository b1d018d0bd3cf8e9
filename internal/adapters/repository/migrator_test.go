package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

func fastRetries(t *testing.T) {
	originalRetries, originalInterval := maxRetries, retryInterval
	maxRetries, retryInterval = 2, 10*time.Millisecond
	t.Cleanup(func() {
		maxRetries, retryInterval = originalRetries, originalInterval
	})
}

func TestMigrator_WaitForDatabase(t *testing.T) {
	t.Run("Success: Ping answers on the second attempt", func(t *testing.T) {
		fastRetries(t)
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing()

		err = NewMigrator(db, "migrations", logger.Nop()).WaitForDatabase()

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fail: Gives up after the retry budget", func(t *testing.T) {
		fastRetries(t)
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("down"))
		mock.ExpectPing().WillReturnError(errors.New("down"))

		err = NewMigrator(db, "migrations", logger.Nop()).WaitForDatabase()

		assert.ErrorContains(t, err, "database not ready after 2 attempts")
	})
}

func TestMigrator_MissingDirectory(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewMigrator(db, filepath.Join(t.TempDir(), "nope"), logger.Nop())

	assert.NoError(t, m.Up())
	_, _, err = m.Status()
	assert.ErrorContains(t, err, "migrations directory not found")
}
