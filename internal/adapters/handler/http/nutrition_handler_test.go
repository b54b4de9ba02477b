package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

func TestNutritionHandler_Goals(t *testing.T) {
	s := setupRouter(t)

	w := s.do(t, http.MethodGet, "/api/v1/nutrition/goals", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultNutritionGoals(), decode[domain.NutritionGoals](t, w))

	w = s.do(t, http.MethodPut, "/api/v1/nutrition/goals", "u1",
		`{"calories": 2500, "protein": 150, "carbs": 250, "fat": 80, "waterGoal": 3000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	goals := decode[domain.NutritionGoals](t, s.do(t, http.MethodGet, "/api/v1/nutrition/goals", "u1", ""))
	assert.Equal(t, 2500, goals.Calories)
	assert.Equal(t, 3000, goals.WaterGoal)

	w = s.do(t, http.MethodPut, "/api/v1/nutrition/goals", "u1", `{"calories": -1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNutritionHandler_Logs(t *testing.T) {
	s := setupRouter(t)
	base := "/api/v1/nutrition/logs/2024-01-20"

	t.Run("Empty day", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base, "u1", "")
		require.Equal(t, http.StatusOK, w.Code)
		log := decode[domain.DailyLog](t, w)
		assert.Equal(t, "2024-01-20", log.Date)
		assert.Zero(t, log.TotalCalories())
	})

	var itemID string

	t.Run("Add items", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/meals/lunch/items", "u1",
			`{"items": [{"name": "Rice", "calories": 600, "carbs": 120}]}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		log := decode[domain.DailyLog](t, w)
		assert.InDelta(t, 600, log.TotalCalories(), 0.001)
		for _, m := range log.Meals {
			if m.Name == domain.MealLunch && len(m.Items) > 0 {
				itemID = m.Items[0].ID
			}
		}
		require.NotEmpty(t, itemID)
	})

	t.Run("Unknown meal", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/meals/brunch/items", "u1", `{"items": [{"name": "Egg"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update item", func(t *testing.T) {
		w := s.do(t, http.MethodPut, base+"/meals/Lunch/items/"+itemID, "u1",
			`{"name": "Brown rice", "calories": 550}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.InDelta(t, 550, decode[domain.DailyLog](t, w).TotalCalories(), 0.001)
	})

	t.Run("Water", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/water", "u1", `{"amount": 750}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 750, decode[domain.DailyLog](t, w).Water())

		w = s.do(t, http.MethodPost, base+"/water", "u1", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List range", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/nutrition/logs?from=2024-01-01&to=2024-01-31", "u1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]domain.DailyLog](t, w), 1)
	})

	t.Run("Remove item", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, base+"/meals/Lunch/items/"+itemID, "u1", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodDelete, base+"/meals/Lunch/items/"+itemID, "u1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid date", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/nutrition/logs/2024-02-30", "u1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
