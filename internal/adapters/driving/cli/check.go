package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate endpoint configuration and connectivity",
	Long: `Verifies that both endpoints are reachable with the configured
credentials. Nothing is written.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if services == nil || services.NewEndpoints == nil {
		return errors.New("check service not configured")
	}

	source, destination, err := services.NewEndpoints()
	if err != nil {
		return fmt.Errorf("configure endpoints: %w", err)
	}

	ctx := cmd.Context()
	failed := 0

	cmd.Print("Checking source... ")
	if err := source.Validate(ctx); err != nil {
		failed++
		cmd.Printf("FAILED: %v\n", err)
	} else {
		cmd.Println("OK")
	}

	cmd.Print("Checking destination... ")
	if err := destination.Validate(ctx); err != nil {
		failed++
		cmd.Printf("FAILED: %v\n", err)
	} else {
		cmd.Println("OK")
	}

	if failed > 0 {
		return fmt.Errorf("%d of 2 endpoints failed validation", failed)
	}

	cmd.Println("All endpoints reachable.")
	return nil
}
