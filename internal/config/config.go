package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// Hashing contains configuration for the content hashing boundary.
type Hashing struct {
	DefaultAlgorithm string `toml:"default_algorithm"`
}

// Identity contains configuration for content-based move detection.
type Identity struct {
	ContentLookupEnabled bool `toml:"content_lookup_enabled"`
}

// Validation contains the staleness heuristics and TTL tuning knobs.
// The multipliers and thresholds are deliberately exposed here rather than
// hard-coded so archival deployments can tune cache trust windows without a
// rebuild.
type Validation struct {
	MtimeToleranceSeconds  int     `toml:"mtime_tolerance_seconds"`
	MediaTTLHours          int     `toml:"media_ttl_hours"`
	DocumentTTLHours       int     `toml:"document_ttl_hours"`
	TemporaryTTLHours      int     `toml:"temporary_ttl_hours"`
	DefaultTTLHours        int     `toml:"default_ttl_hours"`
	LargeFileThresholdMB   int64   `toml:"large_file_threshold_mb"`
	LargeFileTTLMultiplier float64 `toml:"large_file_ttl_multiplier"`
	AgedFileThresholdDays  int     `toml:"aged_file_threshold_days"`
	AgedFileTTLMultiplier  float64 `toml:"aged_file_ttl_multiplier"`
}

// OperationLimits describes thresholds and expected throughput for one batch
// operation type.
type OperationLimits struct {
	MaxFiles       int     `toml:"max_files"`
	MaxSizeMB      float64 `toml:"max_size_mb"`
	BatchSize      int     `toml:"batch_size"`
	WarningEnabled bool    `toml:"warning_enabled"`
	FilesPerSecond float64 `toml:"files_per_second"`
	MBPerSecond    float64 `toml:"mb_per_second"`
}

// Batch contains per-operation thresholds and the remembered-decision TTL.
type Batch struct {
	DecisionTTLSeconds int             `toml:"decision_ttl_seconds"`
	FastMetadata       OperationLimits `toml:"fast_metadata"`
	ExtendedMetadata   OperationLimits `toml:"extended_metadata"`
	HashCalculation    OperationLimits `toml:"hash_calculation"`
	RenameOperation    OperationLimits `toml:"rename_operation"`
	FileLoading        OperationLimits `toml:"file_loading"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cairn.
//
// Configuration sections by subsystem:
//   - Paths: data directory, log directory, and catalog database location
//   - Hashing: default content hash algorithm
//   - Identity: content-based move detection toggle
//   - Validation: staleness tolerances and per-category TTL tuning
//   - Batch: per-operation thresholds, throughput rates, decision memory
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Hashing    Hashing    `toml:"hashing"`
	Identity   Identity   `toml:"identity"`
	Validation Validation `toml:"validation"`
	Batch      Batch      `toml:"batch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cairn/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cairn.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the cache needs before the
// catalog database can be opened.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dbDir := filepath.Dir(c.Paths.DatabasePath); dbDir != "" {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return fmt.Errorf("create database directory %q: %w", dbDir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}
