package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

var now = time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	repo   *repository.InMemoryUserDataRepository
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryUserDataRepository()
	streakSvc := services.NewStreakService(repo, streaks.UTC, 30, domain.FixedClock(now))
	m, reg := metrics.NewTestManagerAndRegistry()

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		WorkoutHandler:   adapterHTTP.NewWorkoutHandler(services.NewWorkoutService(repo, nil)),
		NutritionHandler: adapterHTTP.NewNutritionHandler(services.NewNutritionService(repo, nil)),
		StreakHandler:    adapterHTTP.NewStreakHandler(streakSvc),
		StatsHandler:     adapterHTTP.NewStatsHandler(services.NewStatsService(repo, streaks.UTC), streakSvc),
		DashboardHandler: adapterHTTP.NewDashboardHandler(services.NewDashboardService(repo, streakSvc), streakSvc),
		Metrics:          m,
		Gatherer:         reg,
		RateCounter:      middleware.NewLocalRateCounter(1),
		RateLimit:        1000,
		RateWindow:       time.Minute,
		StartTime:        now,
	})
	return &testServer{router: router, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.UserIDHeader, user)
	}

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

func TestRouter_Infrastructure(t *testing.T) {
	s := setupRouter(t)

	t.Run("Health without backends", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "ok", body["status"])
		assert.NotContains(t, body, "database")
	})

	t.Run("Metrics exposed", func(t *testing.T) {
		s.do(t, http.MethodGet, "/api/v1/workouts", "u1", "")

		w := s.do(t, http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "kanso_test_server_request{")
	})

	t.Run("CORS preflight", func(t *testing.T) {
		w := s.do(t, http.MethodOptions, "/api/v1/workouts", "", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.UserIDHeader)
	})

	t.Run("API requires a user id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rate limit headers", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/workouts", "u1", "")
		assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
	})
}
