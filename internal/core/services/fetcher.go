package services

import (
	"context"
	"time"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
	"github.com/verdant-labs/canopy-cli/internal/logger"
	"github.com/verdant-labs/canopy-cli/internal/throttle"
)

// Fetcher retrieves one node's children through the source lane, with
// bounded retries and classified error handling. It never recurses;
// traversal belongs to the Walker.
type Fetcher struct {
	source   driven.SourceClient
	lane     *throttle.Throttle
	observer driven.SyncObserver
	retry    domain.RetryConfig
	opts     driven.ChildrenOptions
}

// NewFetcher creates a fetcher. A nil observer is replaced with a no-op.
func NewFetcher(
	source driven.SourceClient,
	lane *throttle.Throttle,
	observer driven.SyncObserver,
	retry domain.RetryConfig,
	opts driven.ChildrenOptions,
) *Fetcher {
	if observer == nil {
		observer = driven.NopObserver{}
	}
	return &Fetcher{
		source:   source,
		lane:     lane,
		observer: observer,
		retry:    retry,
		opts:     opts,
	}
}

// Children fetches the immediate children of parentID.
//
// Each attempt acquires a source permit and releases it when the
// attempt completes, so retries re-throttle. Transient failures are
// retried up to the attempt ceiling with an increasing, capped delay.
// A not-found response is terminal but benign: it yields an empty
// slice with no error. Anything else escalates as a SubtreeError
// carrying the parent id and the last underlying error.
func (f *Fetcher) Children(ctx context.Context, parentID string) ([]*domain.Node, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			f.observer.FetchRetry(parentID, attempt, lastErr)
			if err := f.sleep(ctx, f.backoff(attempt-1)); err != nil {
				return nil, &domain.SubtreeError{ParentID: parentID, Err: err}
			}
		}

		nodes, err := f.listOnce(ctx, parentID)
		if err == nil {
			return nodes, nil
		}

		if domain.IsNotFound(err) {
			logger.Debug("Node %s not found, treating as empty subtree", parentID)
			return []*domain.Node{}, nil
		}

		if !domain.IsTransient(err) {
			return nil, &domain.SubtreeError{ParentID: parentID, Err: err}
		}

		logger.Debug("Transient failure for %s (attempt %d/%d): %v",
			parentID, attempt, f.retry.MaxAttempts, err)
		lastErr = err
	}

	return nil, &domain.SubtreeError{ParentID: parentID, Err: lastErr}
}

// listOnce performs a single throttled attempt.
func (f *Fetcher) listOnce(ctx context.Context, parentID string) ([]*domain.Node, error) {
	if err := f.lane.Acquire(ctx); err != nil {
		return nil, err
	}
	defer f.lane.Release()

	return f.source.ListChildren(ctx, parentID, f.opts)
}

// backoff returns the delay before the given retry (1-based), doubling
// from the base and capped at the configured maximum.
func (f *Fetcher) backoff(retry int) time.Duration {
	delay := f.retry.BaseDelay << (retry - 1)
	if f.retry.MaxDelay > 0 && delay > f.retry.MaxDelay {
		delay = f.retry.MaxDelay
	}
	return delay
}

// sleep waits for d unless the context ends first.
func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
