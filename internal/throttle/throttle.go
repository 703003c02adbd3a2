// Package throttle provides the rate- and concurrency-limiting gate that
// guards one external endpoint class. Each lane (source, destination)
// owns an independent Throttle; they never share capacity.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Config holds pacing and concurrency limits for one lane.
type Config struct {
	// Every is the minimum spacing between permit grants.
	// Zero or negative disables pacing.
	Every time.Duration

	// Burst is the token bucket size. Values below 1 are treated as 1.
	Burst int

	// Concurrency caps the number of permits outstanding at once.
	// Values below 1 are treated as 1 (fully serialised).
	Concurrency int
}

// Throttle enforces two simultaneous constraints: a cap on concurrently
// outstanding permits, and a minimum pacing between grants from a token
// bucket. Waiting callers are never dropped; grants are handed out in
// arrival order as far as the underlying bucket allows.
type Throttle struct {
	limiter *rate.Limiter
	sem     chan struct{}
}

// New creates a throttle for one endpoint lane.
func New(cfg Config) *Throttle {
	limit := rate.Inf
	if cfg.Every > 0 {
		limit = rate.Every(cfg.Every)
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Throttle{
		limiter: rate.NewLimiter(limit, burst),
		sem:     make(chan struct{}, concurrency),
	}
}

// Acquire blocks until a permit is available, honouring both the
// concurrency cap and the pacing bucket. The bucket is consulted last
// so the spacing between successful returns never falls below Every.
// Returns the context error if ctx ends first.
func (t *Throttle) Acquire(ctx context.Context) error {
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := t.limiter.Wait(ctx); err != nil {
		<-t.sem
		return err
	}

	return nil
}

// Release returns a permit. Every successful Acquire must be paired
// with exactly one Release, whether the guarded call succeeded or not.
func (t *Throttle) Release() {
	<-t.sem
}

// InFlight returns the number of permits currently outstanding.
func (t *Throttle) InFlight() int {
	return len(t.sem)
}
