package driven

import "github.com/verdant-labs/canopy-cli/internal/core/domain"

// ConfigStore loads and persists the application configuration.
// Implementations handle the storage format (e.g. TOML files) and
// environment overrides.
type ConfigStore interface {
	// Load reads the configuration from storage, applying defaults for
	// anything unset. A missing file yields the defaults, not an error.
	Load() (*domain.Config, error)

	// Save persists the configuration to storage.
	Save(cfg *domain.Config) error

	// Path returns the configuration file path.
	Path() string
}
