package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// RunFunc executes one mirror pass. The scheduler calls it on every
// tick; injecting it lets the caller rebuild the pipeline from freshly
// loaded configuration between passes.
type RunFunc func(ctx context.Context) (*domain.RunResult, error)

// Scheduler re-runs the mirror pipeline on a fixed interval. It keeps
// no state between passes: each run re-derives the full document set
// from the source tree.
type Scheduler struct {
	interval time.Duration
	run      RunFunc
	trigger  <-chan struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. trigger may be nil; when set, a
// receive on it starts a pass early (used for config file changes).
func NewScheduler(interval time.Duration, run RunFunc, trigger <-chan struct{}) *Scheduler {
	return &Scheduler{
		interval: interval,
		run:      run,
		trigger:  trigger,
	}
}

// Start begins the interval loop. The first pass runs immediately.
// This method blocks until Stop is called or the context ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.trigger:
			log.Printf("scheduler: configuration changed, running early pass")
			s.runOnce(ctx)
			ticker.Reset(s.interval)
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for a pass in flight to complete
	s.wg.Wait()

	return nil
}

// runOnce executes a single pass and logs its outcome.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	started := time.Now()
	result, err := s.run(ctx)
	if err != nil {
		log.Printf("scheduler: pass failed: %v", err)
		return
	}

	log.Printf("scheduler: pass %s finished in %s: %d/%d upserted, %d failures",
		result.RunID, time.Since(started).Round(time.Millisecond),
		result.Upserted, result.Candidates, len(result.Failures))
}
