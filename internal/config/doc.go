// Package config loads, normalizes, and validates cairn configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the cache needs: catalog database location, hash algorithm selection,
// staleness tolerances, per-category TTL tuning, and batch operation
// thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, positive thresholds, and clear validation errors.
package config
