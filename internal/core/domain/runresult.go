package domain

import "time"

// FailureStage identifies where in the pipeline a recorded failure occurred.
type FailureStage string

const (
	// StageFetch marks a root whose subtree could not be fetched.
	StageFetch FailureStage = "fetch"

	// StageUpsert marks a candidate whose destination write failed.
	StageUpsert FailureStage = "upsert"
)

// RunFailure records one isolated failure from a mirror pass.
type RunFailure struct {
	// ID is the root id (fetch failures) or destination document id
	// (upsert failures).
	ID string

	// Stage is the pipeline stage the failure belongs to.
	Stage FailureStage

	// Err is the underlying cause.
	Err error
}

// RunResult is the accumulated outcome of one orchestration pass.
// It exists only for the duration of a run and is never persisted.
type RunResult struct {
	// RunID uniquely identifies this pass.
	RunID string

	// StartedAt and FinishedAt bound the pass.
	StartedAt  time.Time
	FinishedAt time.Time

	// Roots is the number of root documents targeted.
	Roots int

	// RootsSkipped counts roots abandoned after an unrecoverable
	// subtree fetch failure.
	RootsSkipped int

	// Candidates is the total number of syncable documents discovered.
	Candidates int

	// Upserted is the number of documents successfully written.
	Upserted int

	// Failures lists every isolated failure, fetch and upsert alike.
	Failures []RunFailure
}

// Failed reports whether the pass recorded any failure.
func (r *RunResult) Failed() bool {
	return len(r.Failures) > 0
}

// Duration returns the wall-clock length of the pass.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
