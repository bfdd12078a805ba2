package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTickerWorker_ReturnsWorker(t *testing.T) {
	w := NewTickerWorker(func(context.Context) {}, 0)
	require.NotNil(t, w)
	assert.Equal(t, DefaultTickInterval, w.(*tickerWorker).interval)
}

func TestTickerWorker_Start_CallsTick(t *testing.T) {
	var calls atomic.Int64
	w := NewTickerWorker(func(context.Context) { calls.Add(1) }, 10*time.Millisecond)

	// 10ms interval: ~5 ticks in 55ms
	w.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	w.Stop()

	got := calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "tick should have run several times, ran: %d", got)
}

func TestTickerWorker_Stop_StopsGoroutine(t *testing.T) {
	var calls atomic.Int64
	w := NewTickerWorker(func(context.Context) { calls.Add(1) }, 10*time.Millisecond)

	w.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	w.Stop()

	callsAfterStop := calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterStop, calls.Load(), "no ticks expected after Stop")
}

func TestTickerWorker_Stop_BeforeStart_NoPanic(t *testing.T) {
	w := NewTickerWorker(func(context.Context) {}, time.Millisecond)
	assert.NotPanics(t, func() { w.Stop() })
}

func TestTickerWorker_ContextCancelStops(t *testing.T) {
	var calls atomic.Int64
	w := NewTickerWorker(func(context.Context) { calls.Add(1) }, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	w.Start(ctx)
	cancel()
	w.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestTickerWorker_RestartReplacesGoroutine(t *testing.T) {
	var calls atomic.Int64
	w := NewTickerWorker(func(context.Context) { calls.Add(1) }, 5*time.Millisecond)

	w.Start(context.Background())
	w.Start(context.Background())
	w.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "a second Start must not leak the first goroutine")
}
