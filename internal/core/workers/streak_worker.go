package workers

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-fit/internal/logging"
)

const queueSize = 100

type StreakSource interface {
	Now() time.Time
	Overview(ctx context.Context, userID string, asOf time.Time) (*domain.StreakOverview, error)
	Snapshot(ctx context.Context, userID string) (*domain.StreakSnapshot, error)
	SaveSnapshot(ctx context.Context, snap domain.StreakSnapshot) error
}

type Observer interface {
	StreakComputed()
	MilestoneReached(domain string)
	JobDropped()
}

type StreakJob struct {
	UserID string
}

type StreakWorker struct {
	source   StreakSource
	observer Observer
	jobs     chan StreakJob
	logger   *log.Entry
}

func NewStreakWorker(source StreakSource, observer Observer) *StreakWorker {
	return &StreakWorker{
		source:   source,
		observer: observer,
		jobs:     make(chan StreakJob, queueSize),
		logger:   logging.Component("streak_worker"),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("Streak Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks; when the queue is full the job is dropped.
func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		w.logger.WithField("user_id", userID).Warn("Streak Worker queue full! Dropping job")
		if w.observer != nil {
			w.observer.JobDropped()
		}
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	logger := w.logger.WithField("user_id", job.UserID)
	now := w.source.Now()

	overview, err := w.source.Overview(ctx, job.UserID, now)
	if err != nil {
		logger.Errorf("Worker Error computing streaks: %v", err)
		return
	}
	if w.observer != nil {
		w.observer.StreakComputed()
	}

	prev, err := w.source.Snapshot(ctx, job.UserID)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		logger.Errorf("Worker Error fetching previous snapshot: %v", err)
		return
	}

	if prev != nil && prev.Overview.SameStreaks(*overview) {
		logger.Debug("Streaks unchanged, snapshot kept")
		return
	}

	for _, d := range domain.StreakDomains {
		from := 0
		if prev != nil {
			from = prev.Overview.Summary(d).Current
		}
		to := overview.Summary(d).Current
		if m := streaks.CrossedMilestone(from, to); m > 0 {
			logger.WithFields(log.Fields{"domain": d, "milestone": m}).Info("Streak milestone reached")
			if w.observer != nil {
				w.observer.MilestoneReached(string(d))
			}
		}
	}

	snap := domain.StreakSnapshot{
		UserID:     job.UserID,
		Overview:   *overview,
		ComputedAt: now.UTC(),
	}
	if err := w.source.SaveSnapshot(ctx, snap); err != nil {
		logger.Errorf("Worker Failed to save streak snapshot: %v", err)
		return
	}

	logger.WithFields(log.Fields{
		"workout":   overview.Workout.Current,
		"nutrition": overview.Nutrition.Current,
		"water":     overview.Water.Current,
	}).Info("Streak snapshot updated")
}
