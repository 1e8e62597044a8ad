package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cairn/internal/hashing"
	"cairn/internal/logging"
)

// GetByPath fetches the record stored for a normalized path and algorithm.
// Returns nil without error when nothing is stored.
func (s *Store) GetByPath(ctx context.Context, path string, algorithm hashing.Algorithm) (*Record, error) {
	path = NormalizePath(path)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+`
         FROM files f
         JOIN file_hashes h ON h.file_id = f.id
         WHERE f.path = ? AND h.algorithm = ?`,
		path,
		string(algorithm),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by path: %w", err)
	}
	return rec, nil
}

// HashesForPath returns every algorithm/hash pair stored for a path.
func (s *Store) HashesForPath(ctx context.Context, path string) ([]*Record, error) {
	path = NormalizePath(path)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+`
         FROM files f
         JOIN file_hashes h ON h.file_id = f.id
         WHERE f.path = ?
         ORDER BY h.algorithm`,
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("hashes for path: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FindBySignature returns records whose stored hash and size match the given
// signature, most recently updated first. An empty filename relaxes the
// filename constraint (tier-2 search).
func (s *Store) FindBySignature(ctx context.Context, hash string, size int64, filename string) ([]*Record, error) {
	query := `SELECT ` + recordColumns + `
         FROM files f
         JOIN file_hashes h ON h.file_id = f.id
         WHERE h.hash_value = ? AND h.size_at_hash = ?`
	args := []any{strings.ToLower(hash), size}
	if filename != "" {
		query += ` AND f.filename = ?`
		args = append(args, filename)
	}
	query += ` ORDER BY f.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find by signature: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert stores or refreshes the hash for (path, algorithm). Hashes are
// stored lowercase. Returns whether a new hash row was created.
func (s *Store) Upsert(ctx context.Context, path, hash string, algorithm hashing.Algorithm, size int64, filename string, modTime time.Time) (bool, error) {
	path = NormalizePath(path)
	if filename == "" {
		filename = filepath.Base(path)
	}
	now := nowStamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO files (path, filename, size, mtime, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             filename = excluded.filename,
             size = excluded.size,
             mtime = excluded.mtime,
             updated_at = excluded.updated_at`,
		path,
		filename,
		size,
		formatTime(modTime),
		now,
	); err != nil {
		return false, fmt.Errorf("upsert file row: %w", err)
	}

	var fileID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&fileID); err != nil {
		return false, fmt.Errorf("resolve file id: %w", err)
	}

	var existing int
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM file_hashes WHERE file_id = ? AND algorithm = ?`,
		fileID,
		string(algorithm),
	).Scan(&existing); err != nil {
		return false, fmt.Errorf("check hash row: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO file_hashes (file_id, algorithm, hash_value, size_at_hash)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(file_id, algorithm) DO UPDATE SET
             hash_value = excluded.hash_value,
             size_at_hash = excluded.size_at_hash`,
		fileID,
		string(algorithm),
		strings.ToLower(hash),
		size,
	); err != nil {
		return false, fmt.Errorf("upsert hash row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}
	return existing == 0, nil
}

// Rebind updates a record's path after move detection. The old and new paths
// are normalized; updated_at is bumped so rebinding wins future tier searches.
// A stale row already occupying newPath (file replaced in place by content
// tracked elsewhere) is removed first so the moved record can take the path.
func (s *Store) Rebind(ctx context.Context, oldPath, newPath string) error {
	oldPath = NormalizePath(oldPath)
	newPath = NormalizePath(newPath)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebind tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if oldPath != newPath {
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, newPath); err != nil {
			return fmt.Errorf("clear stale record at %s: %w", newPath, err)
		}
	}

	res, err := tx.ExecContext(
		ctx,
		`UPDATE files SET path = ?, filename = ?, updated_at = ? WHERE path = ?`,
		newPath,
		filepath.Base(newPath),
		nowStamp(),
		oldPath,
	)
	if err != nil {
		return fmt.Errorf("rebind path: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rebind rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rebind path: no record for %s", oldPath)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebind: %w", err)
	}
	return nil
}

// Delete removes the file row for a path along with all of its hashes.
// Returns whether anything was removed.
func (s *Store) Delete(ctx context.Context, path string) (bool, error) {
	path = NormalizePath(path)
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SweepOrphans removes records whose referenced file no longer exists on
// disk. Returns the removed paths so in-memory caches can mirror the purge.
func (s *Store) SweepOrphans(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var candidates []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		candidates = append(candidates, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range candidates {
		if pathExists(path) {
			continue
		}
		ok, err := s.Delete(ctx, path)
		if err != nil {
			s.logger.Warn("orphan sweep delete failed",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			continue
		}
		if ok {
			removed = append(removed, path)
		}
	}

	if len(removed) > 0 {
		s.logger.Info("orphan sweep removed records", logging.Int("removed", len(removed)))
	}
	return removed, nil
}
