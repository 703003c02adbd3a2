package services

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/storage/memory"
	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/throttle"
)

// sequencedStore records the order in which documents arrive.
type sequencedStore struct {
	mu  stdsync.Mutex
	ids []string
}

func (s *sequencedStore) PutDocument(_ context.Context, documentID string, _ domain.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, documentID)
	return nil
}

func (s *sequencedStore) Validate(context.Context) error { return nil }

func (s *sequencedStore) order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

func candidateNodes(ids ...string) []*domain.Node {
	nodes := make([]*domain.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &domain.Node{ID: id, Title: id, Body: "content of " + id})
	}
	return nodes
}

func newTestUpserter(dest *memory.DocStore, batchSize int, pause time.Duration) *Upserter {
	lane := throttle.New(throttle.Config{Concurrency: 4})
	return NewUpserter(dest, newScriptedSource(), lane, nil, batchSize, pause)
}

// TestUpserter_Deliver_AllSucceed tests the happy path end to end
func TestUpserter_Deliver_AllSucceed(t *testing.T) {
	store := memory.NewDocStore()
	u := newTestUpserter(store, 5, 0)

	upserted, failures := u.Deliver(context.Background(), candidateNodes("a", "b", "c"))

	assert.Equal(t, 3, upserted)
	assert.Empty(t, failures)
	assert.Equal(t, 3, store.Writes())

	env, ok := store.Document("a-a")
	require.True(t, ok)
	assert.Equal(t, "https://workspace.example.com/doc/a", env.SourceURL)
	assert.Contains(t, env.Text, "Title: a")
	assert.Contains(t, env.Text, "content of a")
}

// TestUpserter_Deliver_FailureIsolation tests that one bad write leaves siblings untouched
func TestUpserter_Deliver_FailureIsolation(t *testing.T) {
	store := memory.NewDocStore()
	store.FailFor("c-c", &domain.APIError{StatusCode: 500, Message: "write failed"})

	lane := throttle.New(throttle.Config{Concurrency: 4})
	observer := &recordingObserver{}
	u := NewUpserter(store, newScriptedSource(), lane, observer, 5, 0)

	upserted, failures := u.Deliver(context.Background(), candidateNodes("a", "b", "c", "d", "e"))

	assert.Equal(t, 4, upserted)
	require.Len(t, failures, 1)
	assert.Equal(t, "c-c", failures[0].ID)
	assert.Equal(t, domain.StageUpsert, failures[0].Stage)

	var upsertErr *domain.UpsertError
	require.ErrorAs(t, failures[0].Err, &upsertErr)
	assert.Equal(t, "c-c", upsertErr.DocumentID)

	assert.Len(t, observer.upserted, 4)
	assert.Equal(t, []string{"c-c"}, observer.failed)
}

// TestUpserter_Deliver_BatchBoundary tests that a batch completes before the next starts
func TestUpserter_Deliver_BatchBoundary(t *testing.T) {
	store := &sequencedStore{}
	lane := throttle.New(throttle.Config{Concurrency: 4})
	u := NewUpserter(store, newScriptedSource(), lane, nil, 2, 0)

	upserted, failures := u.Deliver(context.Background(), candidateNodes("a", "b", "c", "d"))

	assert.Equal(t, 4, upserted)
	assert.Empty(t, failures)

	// Order within a batch is unspecified; the batch boundary is not.
	order := store.order()
	require.Len(t, order, 4)
	assert.ElementsMatch(t, []string{"a-a", "b-b"}, order[:2])
	assert.ElementsMatch(t, []string{"c-c", "d-d"}, order[2:])
}

// TestUpserter_Deliver_PausesBetweenBatches tests the inter-batch gap
func TestUpserter_Deliver_PausesBetweenBatches(t *testing.T) {
	store := memory.NewDocStore()
	u := newTestUpserter(store, 1, 30*time.Millisecond)

	start := time.Now()
	upserted, failures := u.Deliver(context.Background(), candidateNodes("a", "b", "c"))
	elapsed := time.Since(start)

	assert.Equal(t, 3, upserted)
	assert.Empty(t, failures)
	// Two gaps of 30ms separate the three single-document batches.
	assert.GreaterOrEqual(t, elapsed, 55*time.Millisecond)
}

// TestUpserter_Deliver_CancelDuringPauseRecordsRemaining tests shutdown accounting
func TestUpserter_Deliver_CancelDuringPauseRecordsRemaining(t *testing.T) {
	store := memory.NewDocStore()
	u := newTestUpserter(store, 1, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	upserted, failures := u.Deliver(ctx, candidateNodes("a", "b", "c"))

	assert.Equal(t, 1, upserted)
	require.Len(t, failures, 2)
	assert.Equal(t, "b-b", failures[0].ID)
	assert.Equal(t, "c-c", failures[1].ID)
	for _, f := range failures {
		assert.ErrorIs(t, f.Err, context.DeadlineExceeded)
	}
}

// TestUpserter_Deliver_BoundedByLane tests that writes respect the destination lane
func TestUpserter_Deliver_BoundedByLane(t *testing.T) {
	var inFlight, peak int64
	store := memory.NewDocStore()

	lane := throttle.New(throttle.Config{Concurrency: 2})
	source := newScriptedSource()

	// Wrap the lane-bounded write in concurrency book-keeping.
	counting := destinationFunc(func(ctx context.Context, documentID string, env domain.Envelope) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return store.PutDocument(ctx, documentID, env)
	})

	u := NewUpserter(counting, source, lane, nil, 8, 0)
	upserted, failures := u.Deliver(context.Background(), candidateNodes("a", "b", "c", "d", "e", "f"))

	assert.Equal(t, 6, upserted)
	assert.Empty(t, failures)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	assert.Equal(t, 0, lane.InFlight())
}

// destinationFunc adapts a function to the destination port for tests.
type destinationFunc func(ctx context.Context, documentID string, env domain.Envelope) error

func (f destinationFunc) PutDocument(ctx context.Context, documentID string, env domain.Envelope) error {
	return f(ctx, documentID, env)
}

func (f destinationFunc) Validate(context.Context) error { return nil }

// TestUpserter_Deliver_Empty tests the no-candidate case
func TestUpserter_Deliver_Empty(t *testing.T) {
	store := memory.NewDocStore()
	u := newTestUpserter(store, 5, time.Second)

	upserted, failures := u.Deliver(context.Background(), nil)

	assert.Equal(t, 0, upserted)
	assert.Empty(t, failures)
	assert.Equal(t, 0, store.Writes())
}

// TestUpserter_Deliver_OneAttemptPerDocument tests that writes are never retried
func TestUpserter_Deliver_OneAttemptPerDocument(t *testing.T) {
	store := memory.NewDocStore()
	store.FailFor("a-a", errors.New("boom"))
	u := newTestUpserter(store, 5, 0)

	upserted, failures := u.Deliver(context.Background(), candidateNodes("a"))

	assert.Equal(t, 0, upserted)
	require.Len(t, failures, 1)
	assert.Equal(t, 1, store.Writes())
}
