// Package cli implements the cobra command tree for the canopy binary.
// Commands only see wired entry points through Services; the concrete
// pipeline is assembled in main.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
	"github.com/verdant-labs/canopy-cli/internal/logger"
)

// version is overridden at build time via SetVersion.
var version = "dev"

// Services holds the wired dependencies the commands run against.
// Factories load configuration when called, so file edits take effect
// on the next invocation without restarting anything.
type Services struct {
	// NewRunner builds a mirror pass from freshly loaded configuration
	// with the given overrides applied.
	NewRunner func(overrides driving.RunOverrides) (driving.SyncRunner, error)

	// NewScheduler wraps a run function in an interval loop. trigger
	// may be nil; a receive on it starts a pass early.
	NewScheduler func(interval time.Duration, run func(ctx context.Context) (*domain.RunResult, error), trigger <-chan struct{}) driving.Scheduler

	// NewEndpoints builds clients for both endpoints from freshly
	// loaded configuration, for connectivity checks.
	NewEndpoints func() (driven.SourceClient, driven.DestinationClient, error)

	// ConfigStore loads and persists the configuration file.
	ConfigStore driven.ConfigStore
}

// services holds the current wiring.
var services *Services

// SetServices installs the wired services for the commands.
func SetServices(s *Services) {
	services = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Mirror a document workspace into a flat knowledge base",
	Long: `Canopy mirrors a hierarchical document workspace into a flat
destination store: a knowledge-base API or a local archive.

Each pass walks the configured roots, filters out archived and empty
documents, and writes the rest under deterministic identifiers so that
repeated runs converge instead of duplicating.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
