package driven

import "github.com/verdant-labs/canopy-cli/internal/core/domain"

// SyncObserver receives diagnostic events during a mirror pass.
// Observers report, they never decide: control flow is driven by
// classified errors, not by anything an observer does.
type SyncObserver interface {
	// RunStarted fires once per pass, before any root is processed.
	RunStarted(runID string, roots int)

	// FetchRetry fires before each retry sleep while fetching children.
	FetchRetry(parentID string, attempt int, err error)

	// SubtreeSkipped fires when a root is abandoned after an
	// unrecoverable fetch failure.
	SubtreeSkipped(rootID string, err error)

	// DocumentUpserted fires after each successful destination write.
	DocumentUpserted(documentID string)

	// UpsertFailed fires when a candidate's destination write fails.
	UpsertFailed(documentID string, err error)

	// RunFinished fires once per pass with the accumulated result.
	RunFinished(result *domain.RunResult)
}

// NopObserver is a SyncObserver that discards every event.
type NopObserver struct{}

var _ SyncObserver = NopObserver{}

func (NopObserver) RunStarted(string, int) {}
func (NopObserver) FetchRetry(string, int, error) {}
func (NopObserver) SubtreeSkipped(string, error) {}
func (NopObserver) DocumentUpserted(string) {}
func (NopObserver) UpsertFailed(string, error) {}
func (NopObserver) RunFinished(*domain.RunResult) {}
