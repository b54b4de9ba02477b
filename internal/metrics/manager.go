package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterCacheHits          prometheus.Counter
	CounterCacheMisses        prometheus.Counter
	CounterStreakComputations prometheus.Counter
	CounterMilestones         *prometheus.CounterVec
	CounterDroppedJobs        prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("kanso", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("kanso", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_hits",
		Help:      "User data reads served from cache",
	})
	counterCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_misses",
		Help:      "User data reads that went to the store",
	})
	counterStreakComputations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "streak_computations",
		Help:      "The total number of streak overviews computed",
	})
	counterMilestones := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "milestones_reached",
		Help:      "Streak milestones crossed, per domain",
	}, []string{"domain"})
	counterDroppedJobs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "streak_jobs_dropped",
		Help:      "Recompute jobs dropped because the queue was full",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.0025, 0.005,
				0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
		[]string{"route"},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterCacheHits:          counterCacheHits,
		CounterCacheMisses:        counterCacheMisses,
		CounterStreakComputations: counterStreakComputations,
		CounterMilestones:         counterMilestones,
		CounterDroppedJobs:        counterDroppedJobs,
		GaugeRequests:             gaugeRequests,
		HistRequestDuration:       histReqDuration,
	}
}

// CacheHit and CacheMiss let the manager observe the cached repository.
func (m *Manager) CacheHit()  { m.CounterCacheHits.Inc() }
func (m *Manager) CacheMiss() { m.CounterCacheMisses.Inc() }

func (m *Manager) StreakComputed() { m.CounterStreakComputations.Inc() }

func (m *Manager) MilestoneReached(domain string) {
	m.CounterMilestones.WithLabelValues(domain).Inc()
}

func (m *Manager) JobDropped() { m.CounterDroppedJobs.Inc() }
