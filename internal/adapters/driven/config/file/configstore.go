package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Environment overrides, so tokens can stay out of the file.
const (
	EnvSourceToken      = "CANOPY_SOURCE_TOKEN"
	EnvDestinationToken = "CANOPY_DESTINATION_TOKEN"
)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is stored in a TOML file within the canopy config directory.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.canopy/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".canopy")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// fileConfig is the on-disk TOML schema. Durations are written as Go
// duration strings ("300ms", "2s").
type fileConfig struct {
	Source      fileSource      `toml:"source"`
	Destination fileDestination `toml:"destination"`
	Sync        fileSync        `toml:"sync"`
}

type fileSource struct {
	BaseURL       string   `toml:"base_url"`
	Token         string   `toml:"token"`
	RootIDs       []string `toml:"root_ids"`
	ContentFormat string   `toml:"content_format"`
}

type fileDestination struct {
	Kind       string `toml:"kind"`
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token"`
	Collection string `toml:"collection"`
	Path       string `toml:"path"`
}

type fileSync struct {
	BatchSize        int       `toml:"batch_size"`
	BatchPause       string    `toml:"batch_pause"`
	MaxDepth         int       `toml:"max_depth"`
	RequestTimeout   string    `toml:"request_timeout"`
	Retry            fileRetry `toml:"retry"`
	SourceLimit      fileLane  `toml:"source_limit"`
	DestinationLimit fileLane  `toml:"destination_limit"`
}

type fileRetry struct {
	MaxAttempts int    `toml:"max_attempts"`
	BaseDelay   string `toml:"base_delay"`
	MaxDelay    string `toml:"max_delay"`
}

type fileLane struct {
	Every       string `toml:"every"`
	Burst       int    `toml:"burst"`
	Concurrency int    `toml:"concurrency"`
}

// Load reads the configuration, applying defaults for anything unset.
// A missing file yields the defaults. Token environment variables
// override the file in either case.
func (s *ConfigStore) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, err
	}

	// Start the wire struct from the defaults so absent keys keep them.
	wire := fromDomain(&cfg)
	if err := toml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	loaded, err := wire.toDomain()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	applyEnvOverrides(loaded)
	return loaded, nil
}

// Save persists the configuration with restricted permissions.
func (s *ConfigStore) Save(cfg *domain.Config) error {
	wire := fromDomain(cfg)
	data, err := toml.Marshal(wire)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyEnvOverrides lets tokens come from the environment.
func applyEnvOverrides(cfg *domain.Config) {
	if v := os.Getenv(EnvSourceToken); v != "" {
		cfg.Source.Token = v
	}
	if v := os.Getenv(EnvDestinationToken); v != "" {
		cfg.Destination.Token = v
	}
}

// fromDomain converts the domain configuration to the wire schema.
func fromDomain(cfg *domain.Config) fileConfig {
	return fileConfig{
		Source: fileSource{
			BaseURL:       cfg.Source.BaseURL,
			Token:         cfg.Source.Token,
			RootIDs:       cfg.Source.RootIDs,
			ContentFormat: cfg.Source.ContentFormat,
		},
		Destination: fileDestination{
			Kind:       string(cfg.Destination.Kind),
			BaseURL:    cfg.Destination.BaseURL,
			Token:      cfg.Destination.Token,
			Collection: cfg.Destination.Collection,
			Path:       cfg.Destination.Path,
		},
		Sync: fileSync{
			BatchSize:      cfg.Sync.BatchSize,
			BatchPause:     formatDuration(cfg.Sync.BatchPause),
			MaxDepth:       cfg.Sync.MaxDepth,
			RequestTimeout: formatDuration(cfg.Sync.RequestTimeout),
			Retry: fileRetry{
				MaxAttempts: cfg.Sync.Retry.MaxAttempts,
				BaseDelay:   formatDuration(cfg.Sync.Retry.BaseDelay),
				MaxDelay:    formatDuration(cfg.Sync.Retry.MaxDelay),
			},
			SourceLimit:      fromLane(cfg.Sync.SourceLimit),
			DestinationLimit: fromLane(cfg.Sync.DestinationLimit),
		},
	}
}

func fromLane(lane domain.LaneConfig) fileLane {
	return fileLane{
		Every:       formatDuration(lane.Every),
		Burst:       lane.Burst,
		Concurrency: lane.Concurrency,
	}
}

// toDomain converts the wire schema back, parsing duration strings.
func (f fileConfig) toDomain() (*domain.Config, error) {
	cfg := &domain.Config{
		Source: domain.SourceConfig{
			BaseURL:       f.Source.BaseURL,
			Token:         f.Source.Token,
			RootIDs:       f.Source.RootIDs,
			ContentFormat: f.Source.ContentFormat,
		},
		Destination: domain.DestinationConfig{
			Kind:       domain.DestinationKind(f.Destination.Kind),
			BaseURL:    f.Destination.BaseURL,
			Token:      f.Destination.Token,
			Collection: f.Destination.Collection,
			Path:       f.Destination.Path,
		},
		Sync: domain.SyncConfig{
			BatchSize: f.Sync.BatchSize,
			MaxDepth:  f.Sync.MaxDepth,
			Retry: domain.RetryConfig{
				MaxAttempts: f.Sync.Retry.MaxAttempts,
			},
		},
	}

	var err error
	if cfg.Sync.BatchPause, err = parseDuration("sync.batch_pause", f.Sync.BatchPause); err != nil {
		return nil, err
	}
	if cfg.Sync.RequestTimeout, err = parseDuration("sync.request_timeout", f.Sync.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.Sync.Retry.BaseDelay, err = parseDuration("sync.retry.base_delay", f.Sync.Retry.BaseDelay); err != nil {
		return nil, err
	}
	if cfg.Sync.Retry.MaxDelay, err = parseDuration("sync.retry.max_delay", f.Sync.Retry.MaxDelay); err != nil {
		return nil, err
	}
	if cfg.Sync.SourceLimit, err = toLane("sync.source_limit", f.Sync.SourceLimit); err != nil {
		return nil, err
	}
	if cfg.Sync.DestinationLimit, err = toLane("sync.destination_limit", f.Sync.DestinationLimit); err != nil {
		return nil, err
	}

	return cfg, nil
}

func toLane(field string, lane fileLane) (domain.LaneConfig, error) {
	every, err := parseDuration(field+".every", lane.Every)
	if err != nil {
		return domain.LaneConfig{}, err
	}
	return domain.LaneConfig{
		Every:       every,
		Burst:       lane.Burst,
		Concurrency: lane.Concurrency,
	}, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}
