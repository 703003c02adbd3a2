package memory

import (
	"context"
	"sync"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DestinationClient = (*DocStore)(nil)

// DocStore is an in-memory implementation of driven.DestinationClient.
// It backs dry runs and tests; writes are kept only for the lifetime
// of the process.
type DocStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Envelope
	writes    int
	failFor   map[string]error
}

// NewDocStore creates a new in-memory destination.
func NewDocStore() *DocStore {
	return &DocStore{
		documents: make(map[string]domain.Envelope),
		failFor:   make(map[string]error),
	}
}

// PutDocument stores or overwrites an envelope by id.
func (s *DocStore) PutDocument(_ context.Context, documentID string, env domain.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	if err, ok := s.failFor[documentID]; ok {
		return err
	}

	s.documents[documentID] = env
	return nil
}

// Validate always succeeds; memory needs no connectivity.
func (s *DocStore) Validate(_ context.Context) error {
	return nil
}

// Document returns the stored envelope for an id.
func (s *DocStore) Document(id string) (domain.Envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.documents[id]
	return env, ok
}

// Documents returns a copy of everything stored.
func (s *DocStore) Documents() map[string]domain.Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Envelope, len(s.documents))
	for id, env := range s.documents {
		out[id] = env
	}
	return out
}

// Writes returns the total number of write attempts, failures included.
func (s *DocStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailFor makes every write for the given id fail with err.
func (s *DocStore) FailFor(documentID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[documentID] = err
}
