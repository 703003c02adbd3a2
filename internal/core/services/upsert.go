package services

import (
	"context"
	"sync"
	"time"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
	"github.com/verdant-labs/canopy-cli/internal/logger"
	"github.com/verdant-labs/canopy-cli/internal/throttle"
)

// Upserter delivers syncable documents to the destination in
// fixed-size concurrent batches. Each candidate gets exactly one write
// attempt; a failed write is recorded, never retried, since the
// deterministic document id makes the next run overwrite safely.
type Upserter struct {
	destination driven.DestinationClient
	source      driven.SourceClient
	lane        *throttle.Throttle
	observer    driven.SyncObserver
	batchSize   int
	batchPause  time.Duration
}

// NewUpserter creates an upserter. The source client is only consulted
// for document URLs. A nil observer is replaced with a no-op.
func NewUpserter(
	destination driven.DestinationClient,
	source driven.SourceClient,
	lane *throttle.Throttle,
	observer driven.SyncObserver,
	batchSize int,
	batchPause time.Duration,
) *Upserter {
	if observer == nil {
		observer = driven.NopObserver{}
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Upserter{
		destination: destination,
		source:      source,
		lane:        lane,
		observer:    observer,
		batchSize:   batchSize,
		batchPause:  batchPause,
	}
}

// Deliver writes every candidate to the destination and reports the
// success count plus one failure record per candidate that could not
// be written. Within a batch writes run concurrently, bounded by the
// destination lane; batch N+1 starts only after every batch-N write
// has been attempted. One failing candidate never cancels or delays
// its siblings.
func (u *Upserter) Deliver(ctx context.Context, candidates []*domain.Node) (int, []domain.RunFailure) {
	var (
		upserted int
		failures []domain.RunFailure
	)

	for start := 0; start < len(candidates); start += u.batchSize {
		end := start + u.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		if start > 0 && u.batchPause > 0 {
			if err := u.pause(ctx); err != nil {
				// The run is ending; record the remaining candidates
				// as failed rather than silently dropping them.
				for _, n := range candidates[start:] {
					failures = append(failures, u.failure(n, err))
				}
				return upserted, failures
			}
		}

		results := make([]error, len(batch))
		var wg sync.WaitGroup
		for i, node := range batch {
			wg.Add(1)
			go func(i int, node *domain.Node) {
				defer wg.Done()
				results[i] = u.putOne(ctx, node)
			}(i, node)
		}
		wg.Wait()

		for i, err := range results {
			if err != nil {
				failures = append(failures, u.failure(batch[i], err))
				continue
			}
			upserted++
		}
	}

	return upserted, failures
}

// putOne builds the envelope and performs the single throttled write.
func (u *Upserter) putOne(ctx context.Context, node *domain.Node) error {
	env := domain.NewEnvelope(node, u.source.DocumentURL(node.ID))

	if err := u.lane.Acquire(ctx); err != nil {
		return err
	}
	defer u.lane.Release()

	if err := u.destination.PutDocument(ctx, env.DocumentID, env); err != nil {
		logger.Debug("Upsert failed for %s: %v", env.DocumentID, err)
		u.observer.UpsertFailed(env.DocumentID, err)
		return err
	}

	logger.Debug("Upserted %s", env.DocumentID)
	u.observer.DocumentUpserted(env.DocumentID)
	return nil
}

func (u *Upserter) failure(node *domain.Node, err error) domain.RunFailure {
	id := domain.DocumentID(node.ID, node.Title)
	return domain.RunFailure{
		ID:    id,
		Stage: domain.StageUpsert,
		Err:   &domain.UpsertError{DocumentID: id, Err: err},
	}
}

// pause waits the inter-batch gap unless the context ends first.
func (u *Upserter) pause(ctx context.Context) error {
	timer := time.NewTimer(u.batchPause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
