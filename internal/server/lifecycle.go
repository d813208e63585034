// Package server hosts the long-running pieces of the game process: the
// JSON/HTTP action surface and the lifecycle supervisor that starts and
// stops them around OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks until the service
// exits; Stop asks it to exit.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service. Useful
// for small components like the resolution ticker that do not warrant a
// named type.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }
func (f *FuncService) Stop()        { f.StopFn() }

type namedService struct {
	name string
	svc  Service
}

// Lifecycle starts registered services in order, waits for SIGINT,
// SIGTERM, a service failure, or context cancellation, then stops them
// in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
}

// NewLifecycle creates an empty supervisor.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a service. Registration order is start order.
func (l *Lifecycle) Add(name string, svc Service) {
	l.services = append(l.services, namedService{name: name, svc: svc})
}

// Run blocks until shutdown finishes. Returns the error of the first
// service that failed, or nil when shutdown was signal-driven.
//
// Postcondition: every registered service has been stopped.
func (l *Lifecycle) Run(ctx context.Context) error {
	started := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func() {
			if err := ns.svc.Start(); err != nil {
				failures <- fmt.Errorf("service %s: %w", ns.name, err)
				cancel()
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("signal received", zap.String("signal", sig.String()))
	case runErr = <-failures:
		l.logger.Error("service failed", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("context cancelled")
	}

	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		l.logger.Info("stopping service", zap.String("service", ns.name))
		ns.svc.Stop()
	}
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(started)))
	return runErr
}
