package driven

import (
	"context"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
)

// DestinationClient writes document envelopes into the destination
// store. The collection or archive the client targets is bound at
// construction time from run configuration.
type DestinationClient interface {
	// PutDocument creates or overwrites the document with the given
	// identifier. Writing the same id with the same content twice is
	// observably a no-op; the deterministic id makes retried or
	// repeated runs idempotent.
	PutDocument(ctx context.Context, documentID string, env domain.Envelope) error

	// Validate checks the client is properly configured and the
	// destination is reachable.
	Validate(ctx context.Context) error
}
