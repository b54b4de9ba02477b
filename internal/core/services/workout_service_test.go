package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

func TestWorkoutService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigns ids and enqueues a recompute", func(t *testing.T) {
		queue := &recordingQueue{}
		svc := services.NewWorkoutService(newRepo(), queue)

		w, err := svc.Create(ctx, "u1", workoutOn("2024-01-20", "Squat", "Bench"))

		require.NoError(t, err)
		assert.NotEmpty(t, w.ID)
		for _, ex := range w.Exercises {
			assert.NotEmpty(t, ex.ID)
		}
		assert.Equal(t, 1, queue.count())
	})

	t.Run("Rejects invalid workouts", func(t *testing.T) {
		svc := services.NewWorkoutService(newRepo(), nil)

		tests := []struct {
			name    string
			workout domain.Workout
		}{
			{"No exercises", domain.Workout{Date: "2024-01-20"}},
			{"Bad date", workoutOn("20/01/2024", "Squat")},
			{"Blank exercise name", workoutOn("2024-01-20", "  ")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, "u1", tt.workout)
				assert.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})

	t.Run("Does not alias the caller's slices", func(t *testing.T) {
		svc := services.NewWorkoutService(newRepo(), nil)
		input := workoutOn("2024-01-20", "Squat")

		created, err := svc.Create(ctx, "u1", input)
		require.NoError(t, err)
		input.Exercises[0].Name = "Changed"

		got, err := svc.Get(ctx, "u1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Squat", got.Exercises[0].Name)
	})

	t.Run("Empty user is rejected", func(t *testing.T) {
		svc := services.NewWorkoutService(newRepo(), nil)
		_, err := svc.Create(ctx, "", workoutOn("2024-01-20", "Squat"))
		assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	})
}

func TestWorkoutService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := services.NewWorkoutService(newRepo(), nil)

	for _, d := range []string{"2024-01-10", "2024-01-20T07:00:00Z", "2024-01-15"} {
		_, err := svc.Create(ctx, "u1", workoutOn(d, "Row"))
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-01-20T07:00:00Z", list[0].Date)
	assert.Equal(t, "2024-01-15", list[1].Date)
	assert.Equal(t, "2024-01-10", list[2].Date)

	empty, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWorkoutService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	queue := &recordingQueue{}
	svc := services.NewWorkoutService(newRepo(), queue)

	created, err := svc.Create(ctx, "u1", workoutOn("2024-01-20", "Squat"))
	require.NoError(t, err)

	t.Run("Update replaces the workout", func(t *testing.T) {
		updated, err := svc.Update(ctx, "u1", created.ID, workoutOn("2024-01-19", "Deadlift"))
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		got, err := svc.Get(ctx, "u1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-19", got.Date)
		assert.Equal(t, "Deadlift", got.Exercises[0].Name)
	})

	t.Run("Unknown ids", func(t *testing.T) {
		_, err := svc.Update(ctx, "u1", "missing", workoutOn("2024-01-19", "Deadlift"))
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, "u1", "missing"), domain.ErrWorkoutNotFound)

		_, err = svc.Get(ctx, "u1", "missing")
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	})

	t.Run("Delete removes it", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "u1", created.ID))

		_, err := svc.Get(ctx, "u1", created.ID)
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
	})

	assert.Equal(t, 3, queue.count())
}

func TestWorkoutService_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("Read failure propagates", func(t *testing.T) {
		repo := new(MockUserDataRepo)
		repo.On("Get", ctx, "u1", domain.KeyWorkouts).Return(nil, boom)

		_, err := services.NewWorkoutService(repo, nil).List(ctx, "u1")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Write failure skips the recompute", func(t *testing.T) {
		repo := new(MockUserDataRepo)
		repo.On("Get", ctx, "u1", domain.KeyWorkouts).Return(nil, domain.ErrDataNotFound)
		repo.On("Set", ctx, "u1", domain.KeyWorkouts, mock.Anything).Return(boom)
		queue := &recordingQueue{}

		_, err := services.NewWorkoutService(repo, queue).Create(ctx, "u1", workoutOn("2024-01-20", "Squat"))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, queue.count())
	})

	t.Run("Corrupt document is reported", func(t *testing.T) {
		repo := new(MockUserDataRepo)
		repo.On("Get", ctx, "u1", domain.KeyWorkouts).Return([]byte(`{not json`), nil)

		_, err := services.NewWorkoutService(repo, nil).List(ctx, "u1")
		assert.Error(t, err)
	})
}
