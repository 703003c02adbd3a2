package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive configuration setup",
	Long: `Walks through the source and destination settings and writes the
configuration file. Existing values are offered as defaults; leave a
prompt empty to keep them.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	if services == nil || services.ConfigStore == nil {
		return errors.New("config store not configured")
	}

	cfg, err := services.ConfigStore.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Canopy configuration")
	cmd.Println("====================")
	cmd.Println()

	cmd.Println("[Source]")
	cfg.Source.BaseURL = promptString(cmd, reader, "Workspace API base URL", cfg.Source.BaseURL)
	cfg.Source.Token = promptSecret(cmd, reader, "Workspace token", cfg.Source.Token)
	roots := promptString(cmd, reader, "Root ids, comma separated (empty mirrors every root)",
		strings.Join(cfg.Source.RootIDs, ","))
	cfg.Source.RootIDs = parseRootIDs(roots)

	cmd.Println()
	cmd.Println("[Destination]")
	kind := promptString(cmd, reader, `Destination kind ("api" or "sqlite")`, string(cfg.Destination.Kind))
	switch domain.DestinationKind(kind) {
	case domain.DestinationAPI:
		cfg.Destination.Kind = domain.DestinationAPI
		cfg.Destination.BaseURL = promptString(cmd, reader, "Knowledge base API base URL", cfg.Destination.BaseURL)
		cfg.Destination.Collection = promptString(cmd, reader, "Collection", cfg.Destination.Collection)
		cfg.Destination.Token = promptSecret(cmd, reader, "Knowledge base token", cfg.Destination.Token)
	case domain.DestinationSQLite:
		cfg.Destination.Kind = domain.DestinationSQLite
		cfg.Destination.Path = promptString(cmd, reader, "Archive path (empty for the default location)", cfg.Destination.Path)
	default:
		return fmt.Errorf("unknown destination kind %q", kind)
	}

	if err := services.ConfigStore.Save(cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	cmd.Println()
	cmd.Printf("Configuration written to %s\n", services.ConfigStore.Path())
	cmd.Println("Run 'canopy check' to verify connectivity.")
	return nil
}

// Helper functions.

func promptString(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}

	input := readLine(reader)
	if input == "" {
		return current
	}
	return input
}

func promptSecret(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, maskToken(current))
	} else {
		cmd.Printf("%s: ", label)
	}

	secret := readPassword(reader)
	cmd.Println()
	if secret == "" {
		return current
	}
	return secret
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads a token without echo on a terminal, falling back
// to plain input when stdin is piped.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if password, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func parseRootIDs(input string) []string {
	var ids []string
	for _, part := range strings.Split(input, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
