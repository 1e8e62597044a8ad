package config

import (
	"errors"
	"fmt"
)

var knownAlgorithms = map[string]struct{}{
	"crc32":  {},
	"md5":    {},
	"sha1":   {},
	"sha256": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateHashing(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.DatabasePath == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateHashing() error {
	if _, ok := knownAlgorithms[c.Hashing.DefaultAlgorithm]; !ok {
		return fmt.Errorf("hashing.default_algorithm: unsupported algorithm %q", c.Hashing.DefaultAlgorithm)
	}
	return nil
}

func (c *Config) validateValidation() error {
	v := c.Validation
	if v.LargeFileTTLMultiplier < 1 {
		return errors.New("validation.large_file_ttl_multiplier must be >= 1")
	}
	if v.AgedFileTTLMultiplier < 1 {
		return errors.New("validation.aged_file_ttl_multiplier must be >= 1")
	}
	return nil
}

func (c *Config) validateBatch() error {
	limits := map[string]OperationLimits{
		"batch.fast_metadata":     c.Batch.FastMetadata,
		"batch.extended_metadata": c.Batch.ExtendedMetadata,
		"batch.hash_calculation":  c.Batch.HashCalculation,
		"batch.rename_operation":  c.Batch.RenameOperation,
		"batch.file_loading":      c.Batch.FileLoading,
	}
	for section, l := range limits {
		if l.MaxFiles <= 0 {
			return fmt.Errorf("%s.max_files must be positive", section)
		}
		if l.MaxSizeMB <= 0 {
			return fmt.Errorf("%s.max_size_mb must be positive", section)
		}
		if l.FilesPerSecond <= 0 || l.MBPerSecond <= 0 {
			return fmt.Errorf("%s throughput rates must be positive", section)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
