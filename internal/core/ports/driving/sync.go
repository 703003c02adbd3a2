package driving

import (
	"context"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
)

// RunOverrides adjusts a single invocation without touching the stored
// configuration.
type RunOverrides struct {
	// RootIDs replaces the configured root selection when non-empty.
	RootIDs []string

	// AllRoots forces collection-wide enumeration even when specific
	// roots are configured.
	AllRoots bool

	// DryRun redirects writes into a throwaway in-memory destination.
	DryRun bool
}

// SyncRunner performs one mirror pass over the configured roots.
type SyncRunner interface {
	// Run executes the pass and returns its accumulated result. The
	// error is non-nil only for configuration-time failures before any
	// root was processed; everything else is recorded in the result.
	Run(ctx context.Context) (*domain.RunResult, error)

	// Status returns a snapshot of the pass currently in progress.
	Status(ctx context.Context) (*RunStatus, error)
}

// RunStatus represents the current state of a mirror pass.
type RunStatus struct {
	// Running indicates if a pass is currently in progress.
	Running bool

	// Roots is the number of roots targeted by the pass.
	Roots int

	// RootsDone is the number of roots fully processed or skipped.
	RootsDone int

	// Candidates is the count of syncable documents discovered so far.
	Candidates int

	// Upserted is the count of successful destination writes so far.
	Upserted int

	// Failed is the number of recorded failures so far.
	Failed int
}
