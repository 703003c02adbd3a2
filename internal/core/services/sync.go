package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
	"github.com/verdant-labs/canopy-cli/internal/logger"
	"github.com/verdant-labs/canopy-cli/internal/throttle"
)

// Ensure Orchestrator implements the interface.
var _ driving.SyncRunner = (*Orchestrator)(nil)

// Orchestrator composes fetch, flatten and upsert across one or many
// root documents. Failures are absorbed at the narrowest boundary that
// preserves progress: a skipped root or a recorded candidate failure
// never aborts the pass.
type Orchestrator struct {
	source     driven.SourceClient
	observer   driven.SyncObserver
	sourceLane *throttle.Throttle
	rootIDs    []string

	walker   *Walker
	upserter *Upserter

	// Status tracking
	mu     sync.RWMutex
	status *driving.RunStatus
}

// NewOrchestrator creates an orchestrator over the two endpoint
// clients and their lanes. rootIDs selects specific roots; empty means
// every root the source enumerates. A nil observer is replaced with a
// no-op.
func NewOrchestrator(
	source driven.SourceClient,
	destination driven.DestinationClient,
	sourceLane *throttle.Throttle,
	destinationLane *throttle.Throttle,
	observer driven.SyncObserver,
	cfg domain.SyncConfig,
	rootIDs []string,
	contentFormat string,
) *Orchestrator {
	if observer == nil {
		observer = driven.NopObserver{}
	}

	fetcher := NewFetcher(source, sourceLane, observer, cfg.Retry, driven.ChildrenOptions{
		MaxDepth:      1,
		ContentFormat: contentFormat,
	})

	return &Orchestrator{
		source:     source,
		observer:   observer,
		sourceLane: sourceLane,
		rootIDs:    rootIDs,
		walker:     NewWalker(fetcher, cfg.MaxDepth),
		upserter:   NewUpserter(destination, source, destinationLane, observer, cfg.BatchSize, cfg.BatchPause),
	}
}

// Run executes one mirror pass. Only pre-run failures return an error:
// an already-running pass, or the root enumeration itself failing
// before any root was processed. Everything after that is recorded in
// the RunResult.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunResult, error) {
	roots, err := o.resolveRoots(ctx)
	if err != nil {
		return nil, err
	}

	if !o.beginRun(len(roots)) {
		return nil, domain.ErrRunInProgress
	}
	defer o.endRun()

	result := &domain.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Roots:     len(roots),
	}

	o.observer.RunStarted(result.RunID, len(roots))
	logger.Info("Starting run %s over %d roots", result.RunID, len(roots))

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		o.processRoot(ctx, root, result)
		o.updateStatus(func(s *driving.RunStatus) { s.RootsDone++ })
	}

	result.FinishedAt = time.Now()
	o.observer.RunFinished(result)
	logger.Info("Run %s complete: %d/%d upserted, %d roots skipped, %d failures",
		result.RunID, result.Upserted, result.Candidates, result.RootsSkipped, len(result.Failures))

	return result, nil
}

// Status returns a snapshot of the pass in progress, or an idle status.
func (o *Orchestrator) Status(_ context.Context) (*driving.RunStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		return &driving.RunStatus{}, nil
	}

	// Return a copy to avoid race conditions
	copied := *o.status
	return &copied, nil
}

// processRoot drives one root through Fetching, Flattening and
// Upserting. A subtree fetch failure absorbs into a skip: the root is
// recorded and the pass moves on.
func (o *Orchestrator) processRoot(ctx context.Context, root *domain.Node, result *domain.RunResult) {
	logger.Debug("Fetching subtree of %s", root.ID)

	if err := o.walker.Expand(ctx, root); err != nil {
		logger.Warn("Skipping root %s: %v", root.ID, err)
		o.observer.SubtreeSkipped(root.ID, err)
		result.RootsSkipped++
		result.Failures = append(result.Failures, domain.RunFailure{
			ID:    root.ID,
			Stage: domain.StageFetch,
			Err:   err,
		})
		o.updateStatus(func(s *driving.RunStatus) { s.Failed++ })
		return
	}

	candidates := Flatten([]*domain.Node{root})
	result.Candidates += len(candidates)
	o.updateStatus(func(s *driving.RunStatus) { s.Candidates += len(candidates) })
	logger.Debug("Root %s flattened to %d candidates", root.ID, len(candidates))

	upserted, failures := o.upserter.Deliver(ctx, candidates)
	result.Upserted += upserted
	result.Failures = append(result.Failures, failures...)
	o.updateStatus(func(s *driving.RunStatus) {
		s.Upserted += upserted
		s.Failed += len(failures)
	})
}

// resolveRoots builds the unexpanded root set, either from the
// configured ids or by enumerating the collection.
func (o *Orchestrator) resolveRoots(ctx context.Context) ([]*domain.Node, error) {
	if len(o.rootIDs) > 0 {
		roots := make([]*domain.Node, 0, len(o.rootIDs))
		for _, id := range o.rootIDs {
			roots = append(roots, &domain.Node{ID: id})
		}
		return roots, nil
	}

	if err := o.sourceLane.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}
	refs, err := o.source.ListRoots(ctx)
	o.sourceLane.Release()
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}

	roots := make([]*domain.Node, 0, len(refs))
	for _, ref := range refs {
		roots = append(roots, ref.Root())
	}
	return roots, nil
}

// beginRun installs a fresh status if no pass is running.
func (o *Orchestrator) beginRun(roots int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != nil && o.status.Running {
		return false
	}
	o.status = &driving.RunStatus{Running: true, Roots: roots}
	return true
}

// endRun clears the running flag, keeping the final counts readable.
func (o *Orchestrator) endRun() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		o.status.Running = false
	}
}

// updateStatus mutates the live status under the lock.
func (o *Orchestrator) updateStatus(fn func(*driving.RunStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		fn(o.status)
	}
}
