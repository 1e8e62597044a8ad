package catalog

import (
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"

	"cairn/internal/hashing"
)

// Record is a persisted cache entry: one content hash for one file path.
// The catalog owns all records; other components hold transient copies
// returned from lookups.
type Record struct {
	ID         int64
	Path       string
	Filename   string
	Algorithm  hashing.Algorithm
	Hash       string
	Size       int64
	SizeAtHash int64
	ModTime    time.Time
	UpdatedAt  time.Time
}

// NormalizePath converts a path to its canonical stored form: absolute,
// cleaned, and Unicode NFC so equivalent spellings collide to one key.
// Filesystems such as APFS hand back decomposed names, which would otherwise
// split one file across two cache keys.
func NormalizePath(path string) string {
	if path == "" {
		return path
	}
	cleaned := filepath.Clean(path)
	if abs, err := filepath.Abs(cleaned); err == nil {
		cleaned = abs
	}
	return norm.NFC.String(cleaned)
}

const recordColumns = "f.id, f.path, f.filename, f.size, f.mtime, f.updated_at, h.algorithm, h.hash_value, h.size_at_hash"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         int64
		path       string
		filename   string
		size       sql.NullInt64
		mtimeRaw   sql.NullString
		updatedRaw sql.NullString
		algorithm  string
		hashValue  string
		sizeAtHash sql.NullInt64
	)

	if err := scanner.Scan(
		&id,
		&path,
		&filename,
		&size,
		&mtimeRaw,
		&updatedRaw,
		&algorithm,
		&hashValue,
		&sizeAtHash,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:         id,
		Path:       path,
		Filename:   filename,
		Algorithm:  hashing.Algorithm(algorithm),
		Hash:       hashValue,
		Size:       size.Int64,
		SizeAtHash: sizeAtHash.Int64,
	}
	if mtimeRaw.Valid {
		if mtime, err := parseTimeString(mtimeRaw.String); err == nil {
			rec.ModTime = mtime
		}
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

// timestampLayout keeps the fractional part fixed-width so stored strings
// sort lexicographically in timestamp order; tier searches rely on
// ORDER BY updated_at.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func formatTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(timestampLayout)
}

func nowStamp() string {
	return time.Now().UTC().Format(timestampLayout)
}
