package worker

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/riskgrid/pkg/utils/errutil"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

// Refresher rebuilds the risk indices of every project
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// RefreshStatus reports the outcome of the refresh cycles so far
type RefreshStatus struct {
	LastAttempt time.Time
	LastSuccess time.Time
	Failures    int
}

// GridRefreshWorker periodically re-initializes the grid's risk providers.
// A failed cycle keeps the previously installed indices and is retried on
// the next tick.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type GridRefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu     sync.RWMutex
	status RefreshStatus
}

// NewGridRefreshWorker creates a new worker for refreshing the grid
func NewGridRefreshWorker(refresher Refresher, interval time.Duration) *GridRefreshWorker {
	return &GridRefreshWorker{
		refresher: refresher,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background refresh loop. The first refresh runs in the
// background too, so Start does not block server startup.
func (w *GridRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("grid refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *GridRefreshWorker) Stop() {
	logging.Default().Info("grid refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("grid refresh worker stopped")
}

// Status returns a copy of the current refresh status
func (w *GridRefreshWorker) Status() RefreshStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *GridRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)

		case <-w.stopCh:
			logging.Default().Info("grid refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("grid refresh worker context cancelled")
			return
		}
	}
}

func (w *GridRefreshWorker) refresh(ctx context.Context) {
	startTime := time.Now()

	w.mu.Lock()
	w.status.LastAttempt = startTime
	w.mu.Unlock()

	if err := w.refresher.RefreshAll(ctx); err != nil {
		w.mu.Lock()
		w.status.Failures++
		w.mu.Unlock()
		_ = errutil.Handle(ctx, err, "grid refresh failed (will retry next interval)")
		return
	}

	w.mu.Lock()
	w.status.LastSuccess = startTime
	w.mu.Unlock()

	logging.Default().Info("grid refresh completed",
		"duration", time.Since(startTime).String())
}
