package hashstore

import (
	"context"
	"strings"

	"cairn/internal/hashing"
	"cairn/internal/logging"
)

// Integrity is the outcome of comparing a stored hash against a freshly
// computed one. Recompute failure is reported as Unknown rather than folded
// into Mismatch: an unreadable file tells us nothing about its contents.
type Integrity int

const (
	// IntegrityNoRecord means no hash was ever stored for the path.
	IntegrityNoRecord Integrity = iota
	// IntegrityUnknown means a hash is stored but recomputation failed.
	IntegrityUnknown
	// IntegrityMismatch means the recomputed hash differs from the stored one.
	IntegrityMismatch
	// IntegrityOK means the recomputed hash matches the stored one.
	IntegrityOK
)

func (i Integrity) String() string {
	switch i {
	case IntegrityNoRecord:
		return "no-record"
	case IntegrityUnknown:
		return "unknown"
	case IntegrityMismatch:
		return "mismatch"
	case IntegrityOK:
		return "ok"
	default:
		return "invalid"
	}
}

// VerifyIntegrity recomputes the file's hash and compares it to the stored
// value, case-insensitively. A backend failure while reading the stored
// value reports Unknown, not NoRecord: the record may well exist.
func (s *Store) VerifyIntegrity(ctx context.Context, path string, algorithm hashing.Algorithm) Integrity {
	stored, ok := s.Lookup(ctx, path, algorithm)
	if !ok {
		if _, err := s.catalog.GetByPath(ctx, path, algorithm); err != nil {
			s.logger.Warn("integrity lookup failed",
				logging.String(logging.FieldPath, path),
				logging.String(logging.FieldAlgorithm, algorithm.String()),
				logging.Error(err))
			return IntegrityUnknown
		}
		return IntegrityNoRecord
	}

	current, err := s.hasher.Hash(ctx, path, algorithm)
	if err != nil {
		s.logger.Warn("integrity recompute failed",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldAlgorithm, algorithm.String()),
			logging.Error(err))
		return IntegrityUnknown
	}

	if strings.EqualFold(stored, current) {
		return IntegrityOK
	}
	return IntegrityMismatch
}
