package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-planner/internal/adapters/vault"
	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

const (
	testSubject    = "owner"
	testPassphrase = "correct horse battery"

	todayFile   = "Daily Planner/✅Tasks/2026 Year/📅 October/📅 14 October.md"
	summaryFile = "Daily Planner/Summary.md"
)

var wednesday = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

var testCredential = sync.OnceValue(func() *domain.Credential {
	c, err := domain.NewCredential(testSubject, testPassphrase)
	if err != nil {
		panic(err)
	}
	return c
})

type fakeQueue struct {
	accept bool
	jobs   []time.Time
}

func (q *fakeQueue) Enqueue(date time.Time, reason string) bool {
	if !q.accept {
		return false
	}
	q.jobs = append(q.jobs, date)
	return true
}

type testServer struct {
	router  *gin.Engine
	vault   *vault.MemoryVault
	archive domain.SummaryRepository
	notices *notify.Recorder
	queue   *fakeQueue
	tokens  *services.TokenService
	bearer  string
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, wednesday, repository.NewInMemorySummaryRepository())
}

// newTestServerWith pins the clock to now and archives into archive.
func newTestServerWith(t *testing.T, now time.Time, archive domain.SummaryRepository) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		vault:   vault.NewMemoryVault(),
		archive: archive,
		notices: &notify.Recorder{},
		queue:   &fakeQueue{accept: true},
	}

	log := logger.Nop()
	layout := services.DefaultLayout()
	chart := domain.DefaultChartConfig()
	clock := func() time.Time { return now }

	categories := services.NewCategoryService(s.vault, layout, chart, log)
	aggregator := services.NewAggregatorService(s.vault, layout, categories, log)
	summary := services.NewSummaryService(s.vault, layout, aggregator, services.NewRenderer(chart), s.archive, s.notices, log)
	planner := services.NewPlannerService(s.vault, layout, categories, aggregator, summary, chart, s.notices, clock, log)

	cred := testCredential()
	s.tokens = services.NewTokenService("handler-test-secret", "kanso-planner", time.Hour, services.CredentialChecker{Credential: cred})
	auth := services.NewAuthService(cred, s.tokens)

	s.router = NewRouter(RouterDependencies{
		AuthHandler:     NewAuthHandler(auth, s.tokens),
		PlannerHandler:  NewPlannerHandler(planner),
		SummaryHandler:  NewSummaryHandler(summary, s.queue, clock),
		CategoryHandler: NewCategoryHandler(categories, chart, clock),
		Tokens:          s.tokens,
		Logger:          log,
		StartTime:       time.Now(),
	})

	token, err := s.tokens.GenerateToken(testSubject)
	require.NoError(t, err)
	s.bearer = "Bearer " + token
	return s
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", s.bearer)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
