// Package sessionpool throttles how many serialize/deserialize sessions
// run concurrently and how fast they may move bytes to and from a
// blobstore. spec.md's concurrency model is single-threaded cooperative
// within one session but explicitly allows distinct sessions to run in
// parallel; this package is the process-wide cap on "many".
package sessionpool

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds the limits a Controller enforces.
type Config struct {
	// MaxSessions is the maximum number of concurrent serialize/deserialize
	// sessions. If 0, defaults to 1.
	MaxSessions int64

	// IOBytesPerSec caps blob-store read/write throughput across all
	// sessions sharing this Controller. If 0, unlimited.
	IOBytesPerSec int64
}

// Controller bounds session concurrency and blob I/O bandwidth.
type Controller struct {
	sessionSem *semaphore.Weighted
	ioLimiter  *rate.Limiter
}

// NewController creates a Controller from cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1
	}

	c := &Controller{
		sessionSem: semaphore.NewWeighted(cfg.MaxSessions),
	}

	if cfg.IOBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOBytesPerSec), int(cfg.IOBytesPerSec))
	}

	return c
}

// AcquireSession reserves one session slot, blocking until one is free or
// ctx is canceled.
func (c *Controller) AcquireSession(ctx context.Context) error {
	return c.sessionSem.Acquire(ctx, 1)
}

// TryAcquireSession reserves one session slot without blocking, reporting
// whether it succeeded.
func (c *Controller) TryAcquireSession() bool {
	return c.sessionSem.TryAcquire(1)
}

// ReleaseSession releases a session slot reserved by AcquireSession or
// TryAcquireSession.
func (c *Controller) ReleaseSession() {
	c.sessionSem.Release(1)
}

// AcquireIO waits until the I/O budget allows moving n bytes through a
// blobstore backend. A no-op when no throughput limit was configured.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, n)
}
