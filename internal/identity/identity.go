package identity

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"cairn/internal/catalog"
	"cairn/internal/config"
	"cairn/internal/hashing"
	"cairn/internal/logging"
	"cairn/internal/validation"
)

// Signature is the search key used to relocate a moved file's record. It is
// derived from the live file on demand and never persisted.
type Signature struct {
	Hash     string
	Size     int64
	Filename string
}

// Identifier resolves files to their cached records, falling back to
// content-hash search when the path lookup misses or reports stale data.
type Identifier struct {
	catalog   *catalog.Store
	hasher    hashing.Hasher
	engine    *validation.Engine
	algorithm hashing.Algorithm
	enabled   bool
	logger    *slog.Logger
}

// NewIdentifier constructs an identifier using the configured default hash
// algorithm and content-lookup toggle.
func NewIdentifier(cat *catalog.Store, hasher hashing.Hasher, engine *validation.Engine, cfg *config.Config, logger *slog.Logger) *Identifier {
	algorithm, err := hashing.ParseAlgorithm(cfg.Hashing.DefaultAlgorithm)
	if err != nil {
		algorithm = hashing.DefaultAlgorithm
	}
	return &Identifier{
		catalog:   cat,
		hasher:    hasher,
		engine:    engine,
		algorithm: algorithm,
		enabled:   cfg.Identity.ContentLookupEnabled,
		logger:    logging.NewComponentLogger(logger, "identity"),
	}
}

// Identify resolves path to a cached record. The second return reports
// whether the record was relocated from a different path (move detection).
//
// Resolution order: direct path lookup validated against the live file, then
// a hash+size+filename search, then hash+size alone. A match in either
// content tier rebinds the record to the current path. Failures along the
// way are logged and resolve to (nil, false); the file is simply treated as
// new.
func (i *Identifier) Identify(ctx context.Context, path string) (*catalog.Record, bool) {
	normalized := catalog.NormalizePath(path)

	rec, err := i.catalog.GetByPath(ctx, normalized, i.algorithm)
	if err != nil {
		i.logger.Warn("path lookup failed",
			logging.String(logging.FieldPath, normalized),
			logging.Error(err))
	}
	if rec != nil && i.engine.Validate(normalized, rec).IsValid {
		return rec, false
	}

	if !i.enabled {
		return nil, false
	}

	sig, ok := i.signatureFor(ctx, normalized)
	if !ok {
		return nil, false
	}

	candidate := i.findCandidate(ctx, sig)
	if candidate == nil {
		return nil, false
	}
	if candidate.Path == normalized {
		// The stale direct hit turned out to have identical content; only
		// metadata drifted. Nothing moved.
		return candidate, false
	}

	if err := i.catalog.Rebind(ctx, candidate.Path, normalized); err != nil {
		i.logger.Warn("rebind after move detection failed",
			logging.String("old_path", candidate.Path),
			logging.String("new_path", normalized),
			logging.Error(err))
		return nil, false
	}
	i.logger.Info("relocated record for moved file",
		logging.String(logging.FieldEventType, "move_detected"),
		logging.String("old_path", candidate.Path),
		logging.String("new_path", normalized),
		logging.String(logging.FieldAlgorithm, candidate.Algorithm.String()))

	candidate.Path = normalized
	candidate.Filename = filepath.Base(normalized)
	return candidate, true
}

// signatureFor stats and hashes the live file. A false return means the
// signature could not be computed; the failure has already been logged.
func (i *Identifier) signatureFor(ctx context.Context, path string) (Signature, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			i.logger.Debug("stat failed during identification",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return Signature{}, false
	}

	hash, err := i.hasher.Hash(ctx, path, i.algorithm)
	if err != nil {
		i.logger.Warn("hash computation failed during identification",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldAlgorithm, i.algorithm.String()),
			logging.Error(err))
		return Signature{}, false
	}

	return Signature{
		Hash:     hash,
		Size:     info.Size(),
		Filename: filepath.Base(path),
	}, true
}

// findCandidate runs the two content-search tiers: exact filename match
// first, then hash+size alone to cover renames. Candidates arrive ordered
// most recently updated first.
func (i *Identifier) findCandidate(ctx context.Context, sig Signature) *catalog.Record {
	matches, err := i.catalog.FindBySignature(ctx, sig.Hash, sig.Size, sig.Filename)
	if err != nil {
		i.logger.Warn("content search failed",
			logging.String(logging.FieldAlgorithm, i.algorithm.String()),
			logging.Error(err))
		return nil
	}
	if len(matches) == 0 {
		matches, err = i.catalog.FindBySignature(ctx, sig.Hash, sig.Size, "")
		if err != nil {
			i.logger.Warn("content search failed",
				logging.String(logging.FieldAlgorithm, i.algorithm.String()),
				logging.Error(err))
			return nil
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
