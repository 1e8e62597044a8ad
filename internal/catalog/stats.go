package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Stats summarizes catalog contents.
type Stats struct {
	FileCount   int
	HashCount   int
	DBPath      string
	DBSizeBytes int64
}

// Stats returns record counts and the on-disk database size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{DBPath: s.path}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM files`).Scan(&stats.FileCount); err != nil {
		return stats, fmt.Errorf("count files: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM file_hashes`).Scan(&stats.HashCount); err != nil {
		return stats, fmt.Errorf("count hashes: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.DBSizeBytes = info.Size()
	}
	return stats, nil
}

// Health reports diagnostic information about the catalog database.
type Health struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    bool
	IntegrityCheck   bool
	TotalFiles       int
	Error            string
}

// CheckHealth probes the database file, connection, tables, and integrity.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat catalog database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("catalog database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping catalog database: %w", err)
	}
	health.DatabaseReadable = true

	tables := 0
	row := s.db.QueryRowContext(connCtx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name IN ('files', 'file_hashes')")
	if err := row.Scan(&tables); err != nil && !errors.Is(err, sql.ErrNoRows) {
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	health.TablesPresent = tables == 2

	if health.TablesPresent {
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(1) FROM files")
		if err := row.Scan(&health.TotalFiles); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count files: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
