package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeHashing()
	c.normalizeValidation()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = Default().Paths.DataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, defaultDatabaseFilename)
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeHashing() {
	c.Hashing.DefaultAlgorithm = strings.ToLower(strings.TrimSpace(c.Hashing.DefaultAlgorithm))
	if c.Hashing.DefaultAlgorithm == "" {
		c.Hashing.DefaultAlgorithm = defaultAlgorithm
	}
}

func (c *Config) normalizeValidation() {
	v := &c.Validation
	if v.MtimeToleranceSeconds <= 0 {
		v.MtimeToleranceSeconds = defaultMtimeToleranceSeconds
	}
	if v.MediaTTLHours <= 0 {
		v.MediaTTLHours = defaultMediaTTLHours
	}
	if v.DocumentTTLHours <= 0 {
		v.DocumentTTLHours = defaultDocumentTTLHours
	}
	if v.TemporaryTTLHours <= 0 {
		v.TemporaryTTLHours = defaultTemporaryTTLHours
	}
	if v.DefaultTTLHours <= 0 {
		v.DefaultTTLHours = defaultDefaultTTLHours
	}
	if v.LargeFileThresholdMB <= 0 {
		v.LargeFileThresholdMB = defaultLargeFileThresholdMB
	}
	if v.LargeFileTTLMultiplier <= 0 {
		v.LargeFileTTLMultiplier = defaultLargeFileTTLMultiplier
	}
	if v.AgedFileThresholdDays <= 0 {
		v.AgedFileThresholdDays = defaultAgedFileThresholdDays
	}
	if v.AgedFileTTLMultiplier <= 0 {
		v.AgedFileTTLMultiplier = defaultAgedFileTTLMultiplier
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.DecisionTTLSeconds <= 0 {
		c.Batch.DecisionTTLSeconds = defaultDecisionTTLSeconds
	}
	defaults := Default().Batch
	normalizeLimits(&c.Batch.FastMetadata, defaults.FastMetadata)
	normalizeLimits(&c.Batch.ExtendedMetadata, defaults.ExtendedMetadata)
	normalizeLimits(&c.Batch.HashCalculation, defaults.HashCalculation)
	normalizeLimits(&c.Batch.RenameOperation, defaults.RenameOperation)
	normalizeLimits(&c.Batch.FileLoading, defaults.FileLoading)
}

func normalizeLimits(limits *OperationLimits, fallback OperationLimits) {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = fallback.MaxFiles
	}
	if limits.MaxSizeMB <= 0 {
		limits.MaxSizeMB = fallback.MaxSizeMB
	}
	if limits.BatchSize <= 0 {
		limits.BatchSize = fallback.BatchSize
	}
	if limits.FilesPerSecond <= 0 {
		limits.FilesPerSecond = fallback.FilesPerSecond
	}
	if limits.MBPerSecond <= 0 {
		limits.MBPerSecond = fallback.MBPerSecond
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
