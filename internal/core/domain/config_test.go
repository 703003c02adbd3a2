package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Source.BaseURL = "https://team.example.com/api"
	cfg.Source.Token = "src-token"
	cfg.Destination.BaseURL = "https://kb.example.com"
	cfg.Destination.Token = "dst-token"
	cfg.Destination.Collection = "engineering"
	return cfg
}

// TestDefaultConfig_Values tests the shipped defaults
func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "markdown", cfg.Source.ContentFormat)
	assert.Equal(t, DestinationAPI, cfg.Destination.Kind)
	assert.Equal(t, 5, cfg.Sync.BatchSize)
	assert.Equal(t, 3, cfg.Sync.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Sync.Retry.BaseDelay)
	assert.Equal(t, 1, cfg.Sync.SourceLimit.Concurrency)
	assert.Equal(t, 1, cfg.Sync.DestinationLimit.Concurrency)
}

// TestConfig_Validate_Valid tests a complete configuration
func TestConfig_Validate_Valid(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

// TestConfig_Validate_Missing tests required field enforcement
func TestConfig_Validate_Missing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no source url", func(c *Config) { c.Source.BaseURL = "" }},
		{"no source token", func(c *Config) { c.Source.Token = "" }},
		{"no destination url", func(c *Config) { c.Destination.BaseURL = "" }},
		{"no destination token", func(c *Config) { c.Destination.Token = "" }},
		{"no collection", func(c *Config) { c.Destination.Collection = "" }},
		{"zero batch size", func(c *Config) { c.Sync.BatchSize = 0 }},
		{"zero attempts", func(c *Config) { c.Sync.Retry.MaxAttempts = 0 }},
		{"zero base delay", func(c *Config) { c.Sync.Retry.BaseDelay = 0 }},
		{"cap below base", func(c *Config) { c.Sync.Retry.MaxDelay = time.Millisecond }},
		{"unknown kind", func(c *Config) { c.Destination.Kind = "ftp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// TestConfig_Validate_SQLiteDestination tests the archive variant
func TestConfig_Validate_SQLiteDestination(t *testing.T) {
	cfg := validConfig()
	cfg.Destination = DestinationConfig{Kind: DestinationSQLite, Path: "/tmp/archive.db"}
	require.NoError(t, cfg.Validate())

	// The archive path is optional; the store has a default location.
	cfg.Destination.Path = ""
	assert.NoError(t, cfg.Validate())
}
