package hashstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"cairn/internal/catalog"
	"cairn/internal/hashing"
	"cairn/internal/logging"
)

// Key is the composite hot-cache key. Using a struct key instead of a
// formatted string avoids both allocation per lookup and separator collision.
type Key struct {
	Path      string
	Algorithm hashing.Algorithm
}

// Store layers an in-memory hot cache with hit/miss accounting over the
// durable catalog. It is safe for concurrent use; callers are expected to
// serialize writes to the same (path, algorithm) key.
type Store struct {
	catalog *catalog.Store
	hasher  hashing.Hasher
	logger  *slog.Logger

	mu     sync.RWMutex
	hot    map[Key]string
	hits   uint64
	misses uint64
}

// New constructs a hash store over the given catalog and hasher.
func New(cat *catalog.Store, hasher hashing.Hasher, logger *slog.Logger) *Store {
	return &Store{
		catalog: cat,
		hasher:  hasher,
		logger:  logging.NewComponentLogger(logger, "hashstore"),
		hot:     make(map[Key]string),
	}
}

// Store normalizes the path, records the hash in the hot cache, then
// persists it. On persistence failure the hot-cache mutation is retained and
// the error returned: within this process the freshly computed hash is still
// the best answer.
func (s *Store) Store(ctx context.Context, path, hash string, algorithm hashing.Algorithm) error {
	path = catalog.NormalizePath(path)
	hash = strings.ToLower(hash)

	var (
		size    int64
		modTime time.Time
	)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
		modTime = info.ModTime()
	} else {
		s.logger.Debug("stat failed while storing hash",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
	}

	s.mu.Lock()
	s.hot[Key{Path: path, Algorithm: algorithm}] = hash
	s.mu.Unlock()

	if _, err := s.catalog.Upsert(ctx, path, hash, algorithm, size, "", modTime); err != nil {
		s.logger.Warn("hash persisted to hot cache only",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldAlgorithm, algorithm.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "hash will be recomputed after restart"))
		return err
	}
	return nil
}

// ComputeAndStore hashes the file at path and persists the result,
// returning the computed hash.
func (s *Store) ComputeAndStore(ctx context.Context, path string, algorithm hashing.Algorithm) (string, error) {
	hash, err := s.hasher.Hash(ctx, path, algorithm)
	if err != nil {
		return "", fmt.Errorf("compute hash: %w", err)
	}
	if err := s.Store(ctx, path, hash, algorithm); err != nil {
		return "", err
	}
	return hash, nil
}

// Lookup returns the stored hash for (path, algorithm). A hot-cache hit
// increments the hit counter; anything else counts as a miss, with the
// catalog consulted and the hot cache backfilled on success.
func (s *Store) Lookup(ctx context.Context, path string, algorithm hashing.Algorithm) (string, bool) {
	path = catalog.NormalizePath(path)
	key := Key{Path: path, Algorithm: algorithm}

	s.mu.RLock()
	hash, ok := s.hot[key]
	s.mu.RUnlock()
	if ok {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		return hash, true
	}

	s.mu.Lock()
	s.misses++
	s.mu.Unlock()

	rec, err := s.catalog.GetByPath(ctx, path, algorithm)
	if err != nil {
		s.logger.Warn("catalog lookup failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return "", false
	}
	if rec == nil {
		return "", false
	}

	s.mu.Lock()
	s.hot[key] = rec.Hash
	s.mu.Unlock()
	return rec.Hash, true
}

// Contains reports whether a hash is stored for (path, algorithm). It is a
// single Lookup, so it adjusts the hit/miss counters exactly once.
func (s *Store) Contains(ctx context.Context, path string, algorithm hashing.Algorithm) bool {
	_, ok := s.Lookup(ctx, path, algorithm)
	return ok
}

// Invalidate removes every algorithm's entry for path from the hot cache and
// the catalog. Returns whether anything was removed in either tier.
func (s *Store) Invalidate(ctx context.Context, path string) bool {
	path = catalog.NormalizePath(path)

	removed := false
	s.mu.Lock()
	for key := range s.hot {
		if key.Path == path {
			delete(s.hot, key)
			removed = true
		}
	}
	s.mu.Unlock()

	deleted, err := s.catalog.Delete(ctx, path)
	if err != nil {
		s.logger.Warn("catalog invalidate failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return removed
	}
	return removed || deleted
}

// FindDuplicates looks up each path's hash and groups paths by hash value.
// Only groups with two or more members are returned; a singleton hash is not
// a duplicate. Group members keep the caller's path spellings, so the result
// is always a subset of the input.
func (s *Store) FindDuplicates(ctx context.Context, paths []string, algorithm hashing.Algorithm) map[string][]string {
	groups := make(map[string][]string)
	for _, path := range paths {
		hash, ok := s.Lookup(ctx, path, algorithm)
		if !ok {
			continue
		}
		groups[hash] = append(groups[hash], path)
	}
	for hash, members := range groups {
		if len(members) < 2 {
			delete(groups, hash)
		}
	}
	return groups
}

// SweepOrphans purges catalog records whose files no longer exist and
// mirrors the removal in the hot cache. Returns the number of records removed.
func (s *Store) SweepOrphans(ctx context.Context) int {
	removed, err := s.catalog.SweepOrphans(ctx)
	if err != nil {
		s.logger.Warn("orphan sweep failed", logging.Error(err))
		return 0
	}

	if len(removed) > 0 {
		dead := make(map[string]struct{}, len(removed))
		for _, path := range removed {
			dead[path] = struct{}{}
		}
		s.mu.Lock()
		for key := range s.hot {
			if _, ok := dead[key.Path]; ok {
				delete(s.hot, key)
			}
		}
		s.mu.Unlock()
	}
	return len(removed)
}

// Stats summarizes hot-cache behavior plus catalog contents.
type Stats struct {
	HotCacheSize int
	Hits         uint64
	Misses       uint64
	HitRate      float64
	Catalog      catalog.Stats
}

// Stats returns current cache statistics. Catalog errors degrade to
// zero-valued catalog stats.
func (s *Store) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	stats := Stats{
		HotCacheSize: len(s.hot),
		Hits:         s.hits,
		Misses:       s.misses,
	}
	s.mu.RUnlock()

	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	catalogStats, err := s.catalog.Stats(ctx)
	if err != nil {
		s.logger.Warn("catalog stats unavailable", logging.Error(err))
		return stats
	}
	stats.Catalog = catalogStats
	return stats
}
