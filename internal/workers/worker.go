package workers

import (
	"context"
	"sync"
	"time"

	"tickerpulse/internal/metrics"
	"tickerpulse/pkg/logger"
)

// Worker is one background job the scheduler drives on a fixed interval
type Worker interface {
	Name() string

	// Run performs a single iteration and returns; the scheduler owns
	// repetition and cancellation.
	Run(ctx context.Context) error

	Interval() time.Duration
	Enabled() bool
}

// WorkerHealth is a point-in-time view of a worker's run history
type WorkerHealth struct {
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	AvgDuration time.Duration
	Enabled     bool
}

// runStats accumulates per-iteration bookkeeping behind BaseWorker's mutex
type runStats struct {
	lastRun   time.Time
	lastErr   error
	runs      int64
	failures  int64
	totalTime time.Duration
}

// BaseWorker carries what every worker shares: identity, schedule, a
// scoped logger, and run statistics. Embedders report each finished
// iteration through Observe, which also feeds the worker metrics.
type BaseWorker struct {
	name     string
	interval time.Duration
	enabled  bool
	log      *logger.Logger

	mu    sync.Mutex
	stats runStats
}

// NewBaseWorker creates the shared worker bookkeeping
func NewBaseWorker(name string, interval time.Duration, enabled bool) *BaseWorker {
	return &BaseWorker{
		name:     name,
		interval: interval,
		enabled:  enabled,
		log:      logger.Get().With("worker", name),
	}
}

func (w *BaseWorker) Name() string            { return w.name }
func (w *BaseWorker) Interval() time.Duration { return w.interval }
func (w *BaseWorker) Enabled() bool           { return w.enabled }

// Log returns the worker-scoped logger
func (w *BaseWorker) Log() *logger.Logger { return w.log }

// Observe records one finished iteration, successful or not
func (w *BaseWorker) Observe(duration time.Duration, err error) {
	metrics.RecordWorkerExecution(w.name, duration, err)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.lastRun = time.Now()
	w.stats.lastErr = err
	w.stats.runs++
	w.stats.totalTime += duration
	if err != nil {
		w.stats.failures++
	}
}

// Health reports the accumulated run statistics
func (w *BaseWorker) Health() WorkerHealth {
	w.mu.Lock()
	defer w.mu.Unlock()

	var avg time.Duration
	if w.stats.runs > 0 {
		avg = w.stats.totalTime / time.Duration(w.stats.runs)
	}

	return WorkerHealth{
		LastRun:     w.stats.lastRun,
		LastError:   w.stats.lastErr,
		RunCount:    w.stats.runs,
		ErrorCount:  w.stats.failures,
		AvgDuration: avg,
		Enabled:     w.enabled,
	}
}
