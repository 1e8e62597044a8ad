package testsupport

import (
	"path/filepath"
	"testing"

	"cairn/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "data", "catalog.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithContentLookupDisabled turns off content-based move detection.
func WithContentLookupDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identity.ContentLookupEnabled = false
	}
}

// WithDefaultAlgorithm overrides the configured hash algorithm.
func WithDefaultAlgorithm(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Hashing.DefaultAlgorithm = name
	}
}
