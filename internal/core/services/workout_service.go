package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type WorkoutService struct {
	repo  domain.UserDataRepository
	queue StreakEnqueuer
	locks *userLocks
}

func NewWorkoutService(repo domain.UserDataRepository, queue StreakEnqueuer) *WorkoutService {
	return &WorkoutService{
		repo:  repo,
		queue: queue,
		locks: newUserLocks(),
	}
}

func (s *WorkoutService) load(ctx context.Context, userID string) ([]domain.Workout, error) {
	return loadDocument(ctx, s.repo, userID, domain.KeyWorkouts, []domain.Workout{})
}

func (s *WorkoutService) save(ctx context.Context, userID string, workouts []domain.Workout) error {
	sortNewestFirst(workouts)
	if err := saveDocument(ctx, s.repo, userID, domain.KeyWorkouts, workouts); err != nil {
		return err
	}
	enqueue(s.queue, userID)
	return nil
}

// List returns the user's workouts, newest first.
func (s *WorkoutService) List(ctx context.Context, userID string) ([]domain.Workout, error) {
	workouts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(workouts)
	return workouts, nil
}

func (s *WorkoutService) Get(ctx context.Context, userID, id string) (*domain.Workout, error) {
	workouts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		if w.ID == id {
			out := w.Clone()
			return &out, nil
		}
	}
	return nil, domain.ErrWorkoutNotFound
}

func (s *WorkoutService) Create(ctx context.Context, userID string, input domain.Workout) (*domain.Workout, error) {
	w := input.Clone()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	w.ID = uuid.NewString()
	assignExerciseIDs(&w)

	unlock := s.locks.lock(userID)
	defer unlock()

	workouts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	workouts = append(workouts, w)

	if err := s.save(ctx, userID, workouts); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WorkoutService) Update(ctx context.Context, userID, id string, input domain.Workout) (*domain.Workout, error) {
	w := input.Clone()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	w.ID = id
	assignExerciseIDs(&w)

	unlock := s.locks.lock(userID)
	defer unlock()

	workouts, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := indexOfWorkout(workouts, id)
	if idx < 0 {
		return nil, domain.ErrWorkoutNotFound
	}
	workouts[idx] = w

	if err := s.save(ctx, userID, workouts); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	workouts, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	idx := indexOfWorkout(workouts, id)
	if idx < 0 {
		return domain.ErrWorkoutNotFound
	}
	workouts = append(workouts[:idx], workouts[idx+1:]...)

	return s.save(ctx, userID, workouts)
}

func indexOfWorkout(workouts []domain.Workout, id string) int {
	for i, w := range workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func assignExerciseIDs(w *domain.Workout) {
	for i := range w.Exercises {
		if w.Exercises[i].ID == "" {
			w.Exercises[i].ID = uuid.NewString()
		}
	}
}

// sortNewestFirst orders by workout instant; unparseable dates sink to the end.
func sortNewestFirst(workouts []domain.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		ti, _, okI := domain.ParseDateLike(workouts[i].Date)
		tj, _, okJ := domain.ParseDateLike(workouts[j].Date)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
}
