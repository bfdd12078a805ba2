package workers

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval is used when a ticker worker is built with a
// non-positive interval.
const DefaultTickInterval = 30 * time.Second

type tickerWorker struct {
	tick     func(ctx context.Context)
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTickerWorker creates a Worker that calls tick every interval while
// running. The worker is idle until Start is called.
func NewTickerWorker(tick func(ctx context.Context), interval time.Duration) Worker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &tickerWorker{tick: tick, interval: interval}
}

// Start implements Worker. It stops any previously running goroutine, then
// launches a new one that calls tick every interval. The goroutine exits
// when ctx is cancelled or Stop is called.
func (w *tickerWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				w.tick(jobCtx)
			}
		}
	}()
}

// Stop implements Worker. It cancels the goroutine's context and blocks
// until the goroutine has fully exited. Safe to call when the worker is not
// running (no-op in that case).
func (w *tickerWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
