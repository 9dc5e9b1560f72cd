package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake worker for testing
type fakeWorker struct {
	*BaseWorker
	runCount int32
	runFunc  func(ctx context.Context) error
}

func newFakeWorker(name string, interval time.Duration, enabled bool) *fakeWorker {
	return &fakeWorker{
		BaseWorker: NewBaseWorker(name, interval, enabled),
	}
}

func (f *fakeWorker) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCount, 1)
	if f.runFunc != nil {
		return f.runFunc(ctx)
	}
	return nil
}

func (f *fakeWorker) RunCount() int {
	return int(atomic.LoadInt32(&f.runCount))
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("refresh-test", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	time.Sleep(250 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
	assert.False(t, scheduler.IsRunning())

	// Immediate run plus at least one tick.
	assert.GreaterOrEqual(t, worker.RunCount(), 2)
}

func TestScheduler_SurvivesWorkerError(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("failing-worker", 50*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		return assert.AnError
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	// Errors are logged, not fatal; the loop keeps ticking.
	assert.GreaterOrEqual(t, worker.RunCount(), 2)
}

func TestScheduler_SurvivesWorkerPanic(t *testing.T) {
	scheduler := NewScheduler()

	worker := newFakeWorker("panicking-worker", 50*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		panic("boom")
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.GreaterOrEqual(t, worker.RunCount(), 2)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.RegisterWorker(newFakeWorker("refresh-test", 100*time.Millisecond, true))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, scheduler.Start(ctx))

	cancel()
	time.Sleep(200 * time.Millisecond)

	// Stop should work even after context cancellation
	require.NoError(t, scheduler.Stop())
}

func TestScheduler_DisabledWorker(t *testing.T) {
	scheduler := NewScheduler()

	enabled := newFakeWorker("enabled-worker", 100*time.Millisecond, true)
	disabled := newFakeWorker("disabled-worker", 100*time.Millisecond, false)

	scheduler.RegisterWorker(enabled)
	scheduler.RegisterWorker(disabled)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.Greater(t, enabled.RunCount(), 0)
	assert.Equal(t, 0, disabled.RunCount())
}

func TestScheduler_CannotStartTwice(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.RegisterWorker(newFakeWorker("refresh-test", 100*time.Millisecond, true))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.Error(t, scheduler.Start(context.Background()))

	_ = scheduler.Stop()
}

func TestScheduler_GetWorkers(t *testing.T) {
	scheduler := NewScheduler()

	scheduler.RegisterWorker(newFakeWorker("worker-1", 100*time.Millisecond, true))
	scheduler.RegisterWorker(newFakeWorker("worker-2", 200*time.Millisecond, false))

	workers := scheduler.GetWorkers()
	require.Len(t, workers, 2)
	assert.Equal(t, "worker-1", workers[0].Name())
	assert.Equal(t, "worker-2", workers[1].Name())
}

func TestBaseWorker_Health(t *testing.T) {
	w := NewBaseWorker("health-test", time.Minute, true)

	w.Observe(100*time.Millisecond, nil)
	w.Observe(300*time.Millisecond, assert.AnError)

	h := w.Health()
	assert.Equal(t, int64(2), h.RunCount)
	assert.Equal(t, int64(1), h.ErrorCount)
	assert.Equal(t, assert.AnError, h.LastError)
	assert.Equal(t, 200*time.Millisecond, h.AvgDuration)
	assert.True(t, h.Enabled)
}
