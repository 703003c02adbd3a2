package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verdant-labs/canopy-cli/internal/adapters/driven/config/file"
	"github.com/verdant-labs/canopy-cli/internal/adapters/render/report"
	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
	"github.com/verdant-labs/canopy-cli/internal/logger"
)

var (
	syncRoots  []string
	syncAll    bool
	syncDryRun bool
	syncEvery  time.Duration
	syncStrict bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a mirror pass",
	Long: `Walks the configured roots, filters out archived and empty
documents, and writes the rest to the destination.

A failed root or document is recorded and skipped; the pass always
completes. With --every the pass repeats on an interval, and edits to
the configuration file trigger an early pass with the new settings.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringArrayVar(&syncRoots, "root", nil, "mirror this root only (repeatable)")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "mirror every root in the collection")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "walk and filter without writing to the destination")
	syncCmd.Flags().DurationVar(&syncEvery, "every", 0, "repeat the pass on this interval")
	syncCmd.Flags().BoolVar(&syncStrict, "strict", false, "exit non-zero when the pass records failures")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if services == nil || services.NewRunner == nil {
		return errors.New("sync service not configured")
	}
	if syncAll && len(syncRoots) > 0 {
		return errors.New("--all and --root are mutually exclusive")
	}

	overrides := driving.RunOverrides{
		RootIDs:  syncRoots,
		AllRoots: syncAll,
		DryRun:   syncDryRun,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if syncEvery > 0 {
		return runSyncLoop(ctx, cmd, overrides)
	}

	runner, err := services.NewRunner(overrides)
	if err != nil {
		return fmt.Errorf("configure sync: %w", err)
	}

	var result *domain.RunResult
	if out := cmd.OutOrStdout(); isTerminal(out) {
		result, err = syncWithSpinner(ctx, out, runner)
	} else {
		result, err = runner.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println(report.Render(result, report.RenderOptions{DryRun: syncDryRun}))

	if syncStrict && result.Failed() {
		return fmt.Errorf("pass recorded %d failures", len(result.Failures))
	}
	return nil
}

// runSyncLoop repeats the pass on the configured interval until
// interrupted. Configuration is reloaded for every pass, and a config
// file edit triggers an early one.
func runSyncLoop(ctx context.Context, cmd *cobra.Command, overrides driving.RunOverrides) error {
	if services.NewScheduler == nil {
		return errors.New("scheduler not configured")
	}

	var trigger <-chan struct{}
	if services.ConfigStore != nil {
		watcher, err := file.NewWatcher(services.ConfigStore.Path())
		if err != nil {
			logger.Warn("config watch unavailable: %v", err)
		} else {
			defer watcher.Close()
			trigger = watcher.Events()
		}
	}

	pass := func(ctx context.Context) (*domain.RunResult, error) {
		runner, err := services.NewRunner(overrides)
		if err != nil {
			return nil, err
		}
		result, err := runner.Run(ctx)
		if err != nil {
			return nil, err
		}
		cmd.Println(report.Render(result, report.RenderOptions{DryRun: overrides.DryRun}))
		return result, nil
	}

	cmd.Printf("Mirroring every %s. Press Ctrl+C to stop.\n", syncEvery)

	sched := services.NewScheduler(syncEvery, pass, trigger)

	err := sched.Start(ctx)
	if stopErr := sched.Stop(); stopErr != nil {
		return stopErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal. Buffers and
// pipes are not, which keeps test and scripted output plain.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
