package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/config/file"
	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/storage/kbapi"
	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/storage/memory"
	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/storage/sqlite"
	"github.com/verdant-labs/canopy-cli/internal/adapters/driving/cli"
	"github.com/verdant-labs/canopy-cli/internal/connectors/workspace"
	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
	"github.com/verdant-labs/canopy-cli/internal/core/services"
	"github.com/verdant-labs/canopy-cli/internal/logger"
	"github.com/verdant-labs/canopy-cli/internal/throttle"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configStore, err := file.NewConfigStore(os.Getenv("CANOPY_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		NewRunner:    newRunner(configStore),
		NewScheduler: newScheduler,
		NewEndpoints: newEndpoints(configStore),
		ConfigStore:  configStore,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRunner builds mirror passes from freshly loaded configuration, so
// config file edits take effect on the next pass without a restart.
func newRunner(store driven.ConfigStore) func(driving.RunOverrides) (driving.SyncRunner, error) {
	return func(overrides driving.RunOverrides) (driving.SyncRunner, error) {
		cfg, err := store.Load()
		if err != nil {
			return nil, err
		}

		// A dry run never touches the destination, so its settings may
		// be incomplete.
		if !overrides.DryRun {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
		}

		source, err := newSource(cfg)
		if err != nil {
			return nil, err
		}

		var destination driven.DestinationClient
		if overrides.DryRun {
			destination = memory.NewDocStore()
		} else if destination, err = newDestination(cfg); err != nil {
			return nil, err
		}

		rootIDs := cfg.Source.RootIDs
		if len(overrides.RootIDs) > 0 {
			rootIDs = overrides.RootIDs
		}
		if overrides.AllRoots {
			rootIDs = nil
		}

		sourceLane := throttle.New(throttle.Config{
			Every:       cfg.Sync.SourceLimit.Every,
			Burst:       cfg.Sync.SourceLimit.Burst,
			Concurrency: cfg.Sync.SourceLimit.Concurrency,
		})
		destinationLane := throttle.New(throttle.Config{
			Every:       cfg.Sync.DestinationLimit.Every,
			Burst:       cfg.Sync.DestinationLimit.Burst,
			Concurrency: cfg.Sync.DestinationLimit.Concurrency,
		})

		return services.NewOrchestrator(
			source,
			destination,
			sourceLane,
			destinationLane,
			logObserver{},
			cfg.Sync,
			rootIDs,
			cfg.Source.ContentFormat,
		), nil
	}
}

func newScheduler(interval time.Duration, run func(ctx context.Context) (*domain.RunResult, error), trigger <-chan struct{}) driving.Scheduler {
	return services.NewScheduler(interval, run, trigger)
}

func newEndpoints(store driven.ConfigStore) func() (driven.SourceClient, driven.DestinationClient, error) {
	return func() (driven.SourceClient, driven.DestinationClient, error) {
		cfg, err := store.Load()
		if err != nil {
			return nil, nil, err
		}

		source, err := newSource(cfg)
		if err != nil {
			return nil, nil, err
		}

		destination, err := newDestination(cfg)
		if err != nil {
			return nil, nil, err
		}

		return source, destination, nil
	}
}

func newSource(cfg *domain.Config) (driven.SourceClient, error) {
	return workspace.NewClient(context.Background(), workspace.Config{
		BaseURL: cfg.Source.BaseURL,
		Token:   cfg.Source.Token,
		Timeout: cfg.Sync.RequestTimeout,
	})
}

func newDestination(cfg *domain.Config) (driven.DestinationClient, error) {
	switch cfg.Destination.Kind {
	case domain.DestinationSQLite:
		return sqlite.NewStore(cfg.Destination.Path)
	case domain.DestinationAPI:
		return kbapi.NewStore(context.Background(), kbapi.Config{
			BaseURL:    cfg.Destination.BaseURL,
			Token:      cfg.Destination.Token,
			Collection: cfg.Destination.Collection,
			Timeout:    cfg.Sync.RequestTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown destination kind %q", cfg.Destination.Kind)
	}
}

// logObserver reports pipeline diagnostics through the package logger.
// Routine events go to the debug level so a quiet run stays quiet.
type logObserver struct{}

var _ driven.SyncObserver = logObserver{}

func (logObserver) RunStarted(runID string, roots int) {
	logger.Info("run %s: mirroring %d roots", runID, roots)
}

func (logObserver) FetchRetry(parentID string, attempt int, err error) {
	logger.Debug("retrying children of %s (attempt %d): %v", parentID, attempt, err)
}

func (logObserver) SubtreeSkipped(rootID string, err error) {
	logger.Warn("skipping root %s: %v", rootID, err)
}

func (logObserver) DocumentUpserted(documentID string) {
	logger.Debug("upserted %s", documentID)
}

func (logObserver) UpsertFailed(documentID string, err error) {
	logger.Warn("upsert %s failed: %v", documentID, err)
}

func (logObserver) RunFinished(result *domain.RunResult) {
	logger.Info("run %s: %d/%d upserted, %d failures in %s",
		result.RunID, result.Upserted, result.Candidates,
		len(result.Failures), result.Duration().Round(time.Millisecond))
}
