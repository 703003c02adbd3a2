package driven

import (
	"context"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
)

// SourceClient fetches the document tree from the source workspace.
// Implementations translate wire-level failures into classified domain
// errors so callers can distinguish transient, not-found and terminal
// conditions without knowing the transport.
type SourceClient interface {
	// ListRoots enumerates the top-level documents of the collection.
	// Used when the run targets the entire collection rather than a
	// configured set of roots.
	ListRoots(ctx context.Context) ([]domain.RootRef, error)

	// ListChildren returns the immediate children of a node. A
	// well-formed "not found" response surfaces as an error matching
	// domain.IsNotFound; the caller decides whether that is benign.
	// Other failures are classified (transient, rate-limited, terminal).
	ListChildren(ctx context.Context, parentID string, opts ChildrenOptions) ([]*domain.Node, error)

	// DocumentURL resolves the externally addressable URL of a
	// document. Pure; never performs I/O.
	DocumentURL(id string) string

	// Validate checks the client is properly configured and
	// authenticated. Performs a lightweight API call.
	Validate(ctx context.Context) error
}

// ChildrenOptions controls how children are listed.
type ChildrenOptions struct {
	// MaxDepth limits how deep the source expands nested children in
	// a single response. 1 requests immediate children only; values
	// below 1 fall back to the server default.
	MaxDepth int

	// ContentFormat selects the body representation, e.g. "markdown"
	// or "html". Empty uses the server default.
	ContentFormat string
}
