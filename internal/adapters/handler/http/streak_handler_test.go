package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

func seedWorkouts(t *testing.T, s *testServer, dates ...string) {
	t.Helper()
	for _, d := range dates {
		w := s.do(t, http.MethodPost, "/api/v1/workouts", "u1",
			`{"date": "`+d+`", "exercises": [{"name": "Run"}]}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestStreakHandler(t *testing.T) {
	s := setupRouter(t)
	seedWorkouts(t, s, "2024-01-18", "2024-01-19", "2024-01-20")

	t.Run("Overview at the clock", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks", "u1", "")
		require.Equal(t, http.StatusOK, w.Code)

		o := decode[domain.StreakOverview](t, w)
		assert.Equal(t, "2024-01-20", o.AsOf)
		assert.Equal(t, 3, o.Workout.Current)
		assert.Equal(t, 7, o.Workout.NextMilestone)
	})

	t.Run("Yesterday keeps the streak alive", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks?as_of=2024-01-21", "u1", "")
		require.Equal(t, http.StatusOK, w.Code)

		o := decode[domain.StreakOverview](t, w)
		assert.Equal(t, "2024-01-21", o.AsOf)
		assert.Equal(t, 3, o.Workout.Current)
	})

	t.Run("Broken streak", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks?as_of=2024-01-25", "u1", "")
		require.Equal(t, http.StatusOK, w.Code)

		o := decode[domain.StreakOverview](t, w)
		assert.Zero(t, o.Workout.Current)
		assert.Equal(t, 3, o.Workout.Longest)
	})

	t.Run("Bad as_of", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks?as_of=tomorrow", "u1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Detail lists qualifying days", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks/workout", "u1", "")
		require.Equal(t, http.StatusOK, w.Code)

		d := decode[domain.StreakDetail](t, w)
		assert.Equal(t, domain.DomainWorkout, d.Domain)
		assert.Equal(t, []string{"2024-01-18", "2024-01-19", "2024-01-20"}, d.Days)
	})

	t.Run("Unknown domain", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks/sleep", "u1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No snapshot yet", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/streaks/snapshot", "u1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
