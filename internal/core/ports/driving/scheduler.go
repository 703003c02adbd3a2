package driving

import "context"

// Scheduler runs mirror passes on a fixed interval.
type Scheduler interface {
	// Start begins the interval loop.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop, waiting for a pass in flight.
	Stop() error
}
