package domain

import (
	"fmt"
	"time"
)

// DestinationKind selects which destination adapter a run writes to.
type DestinationKind string

const (
	// DestinationAPI writes to the remote knowledge-base HTTP API.
	DestinationAPI DestinationKind = "api"

	// DestinationSQLite writes to a local SQLite archive file.
	DestinationSQLite DestinationKind = "sqlite"
)

// SourceConfig describes the source workspace endpoint.
type SourceConfig struct {
	// BaseURL is the workspace API base, e.g. "https://team.example.com/api".
	BaseURL string

	// Token is the bearer token used for authentication.
	Token string

	// RootIDs selects specific root documents. Empty means every root
	// in the collection, enumerated at run time.
	RootIDs []string

	// ContentFormat selects the body representation requested from the
	// source ("markdown" by default).
	ContentFormat string
}

// DestinationConfig describes where documents are written.
type DestinationConfig struct {
	// Kind selects the adapter: "api" or "sqlite".
	Kind DestinationKind

	// BaseURL is the knowledge-base API base (Kind "api").
	BaseURL string

	// Token is the bearer token for the knowledge-base API (Kind "api").
	Token string

	// Collection is the destination collection reference (Kind "api").
	Collection string

	// Path is the archive file location (Kind "sqlite").
	Path string
}

// LaneConfig holds the rate limits for one endpoint lane.
type LaneConfig struct {
	// Every is the minimum spacing between requests.
	Every time.Duration

	// Burst is the token bucket size.
	Burst int

	// Concurrency caps concurrently in-flight requests.
	Concurrency int
}

// RetryConfig bounds the fetch retry behaviour.
type RetryConfig struct {
	// MaxAttempts is the total attempt ceiling, first try included.
	MaxAttempts int

	// BaseDelay is the delay before the first retry; it doubles per
	// attempt up to MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the inter-attempt delay.
	MaxDelay time.Duration
}

// SyncConfig tunes one mirror pass.
type SyncConfig struct {
	// BatchSize is the number of candidates delivered per batch.
	BatchSize int

	// BatchPause is the pause inserted between batches, smoothing load
	// beyond what the destination lane already enforces.
	BatchPause time.Duration

	// MaxDepth limits tree expansion. Values below 1 mean unbounded;
	// 1 walks immediate children of each root only.
	MaxDepth int

	// RequestTimeout bounds each HTTP round trip.
	RequestTimeout time.Duration

	// Retry bounds fetch retries.
	Retry RetryConfig

	// SourceLimit paces source reads.
	SourceLimit LaneConfig

	// DestinationLimit paces destination writes.
	DestinationLimit LaneConfig
}

// Config is the full application configuration for one run.
type Config struct {
	Source      SourceConfig
	Destination DestinationConfig
	Sync        SyncConfig
}

// DefaultConfig returns sensible defaults. Endpoints and credentials
// have no defaults and must be supplied.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			ContentFormat: "markdown",
		},
		Destination: DestinationConfig{
			Kind: DestinationAPI,
		},
		Sync: SyncConfig{
			BatchSize:      5,
			BatchPause:     2 * time.Second,
			MaxDepth:       0,
			RequestTimeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   time.Second,
				MaxDelay:    30 * time.Second,
			},
			SourceLimit: LaneConfig{
				Every:       300 * time.Millisecond,
				Burst:       1,
				Concurrency: 1,
			},
			DestinationLimit: LaneConfig{
				Every:       500 * time.Millisecond,
				Burst:       1,
				Concurrency: 1,
			},
		},
	}
}

// Validate checks the configuration is complete enough to run.
// All failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("%w: source base URL is required", ErrInvalidConfig)
	}
	if c.Source.Token == "" {
		return fmt.Errorf("%w: source token is required", ErrInvalidConfig)
	}

	switch c.Destination.Kind {
	case DestinationAPI:
		if c.Destination.BaseURL == "" {
			return fmt.Errorf("%w: destination base URL is required", ErrInvalidConfig)
		}
		if c.Destination.Token == "" {
			return fmt.Errorf("%w: destination token is required", ErrInvalidConfig)
		}
		if c.Destination.Collection == "" {
			return fmt.Errorf("%w: destination collection is required", ErrInvalidConfig)
		}
	case DestinationSQLite:
		// The archive path is optional; the store falls back to its
		// default location under the config directory.
	default:
		return fmt.Errorf("%w: unknown destination kind %q", ErrInvalidConfig, c.Destination.Kind)
	}

	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1", ErrInvalidConfig)
	}
	if c.Sync.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be at least 1", ErrInvalidConfig)
	}
	if c.Sync.Retry.BaseDelay <= 0 {
		return fmt.Errorf("%w: retry base delay must be positive", ErrInvalidConfig)
	}
	if c.Sync.Retry.MaxDelay < c.Sync.Retry.BaseDelay {
		return fmt.Errorf("%w: retry max delay must not be below the base delay", ErrInvalidConfig)
	}

	return nil
}
