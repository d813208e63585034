package engine

import (
	"context"
	"time"
)

// Ticker drives the engine's timer resolution at a fixed interval. Each
// fire funnels through the same serialized mutation path as user
// operations, so a tick can never interleave with one.
//
// Invariant: Tick is invoked at most once per interval.
type Ticker struct {
	engine   *Engine
	interval time.Duration
}

// NewTicker returns a ticker that fires every interval.
//
// Precondition: interval must be > 0.
func NewTicker(e *Engine, interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("engine.NewTicker: interval must be > 0")
	}
	return &Ticker{engine: e, interval: interval}
}

// Start begins the tick loop in its own goroutine. Runs until ctx is
// cancelled.
func (t *Ticker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.engine.Tick()
			}
		}
	}()
}
