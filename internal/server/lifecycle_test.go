package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
	startFn func() error
}

func (m *blockingService) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	for !m.stopped.Load() {
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func (m *blockingService) Stop() { m.stopped.Store(true) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestLifecycle_CancelStopsAllServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	api := &blockingService{}
	ticker := &blockingService{}
	lc.Add("api", api)
	lc.Add("ticker", ticker)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitFor(t, func() bool { return api.started.Load() && ticker.started.Load() })
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.True(t, api.stopped.Load())
	assert.True(t, ticker.stopped.Load())
}

func TestLifecycle_ServiceFailurePropagates(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	boom := errors.New("listener gone")
	healthy := &blockingService{}
	lc.Add("healthy", healthy)
	lc.Add("broken", &blockingService{startFn: func() error { return boom }})

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "broken")
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down after failure")
	}
	assert.True(t, healthy.stopped.Load(), "healthy services stop after a peer fails")
}

func TestFuncService(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, started)
	assert.True(t, stopped)
}
