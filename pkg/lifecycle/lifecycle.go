// Package lifecycle coordinates startup hooks, long-running services, and
// ordered shutdown for a process.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup hooks, services, and shutdown hooks.
// Its context ends on Shutdown, when the parent context ends, or when any
// service returns an error.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	services   *errgroup.Group
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      atomic.Bool
}

// New creates a Coordinator rooted at context.Background.
func New() *Coordinator {
	return WithParent(context.Background())
}

// WithParent creates a Coordinator whose context also ends with parent.
func WithParent(parent context.Context) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	services, ctx := errgroup.WithContext(ctx)
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		services: services,
	}
}

// Context returns the coordinator's context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Done is closed when the coordinator's context ends.
func (c *Coordinator) Done() <-chan struct{} {
	return c.ctx.Done()
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Go runs a long-lived service. The service must return once ctx ends.
// A non-nil error ends the coordinator context and is reported by Shutdown.
func (c *Coordinator) Go(fn func(ctx context.Context) error) {
	c.services.Go(func() error {
		return fn(c.ctx)
	})
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.ready.Store(true)
}

// Shutdown ends the context, then waits for shutdown hooks and services to
// return within timeout. It returns the first service error, if any.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan error, 1)
	go func() {
		c.shutdownWg.Wait()
		done <- c.services.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
