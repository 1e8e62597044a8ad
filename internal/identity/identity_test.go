package identity_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cairn/internal/catalog"
	"cairn/internal/config"
	"cairn/internal/hashing"
	"cairn/internal/identity"
	"cairn/internal/logging"
	"cairn/internal/testsupport"
	"cairn/internal/validation"
)

type failingHasher struct{}

func (failingHasher) Hash(context.Context, string, hashing.Algorithm) (string, error) {
	return "", errors.New("hash unavailable")
}

func newIdentifier(t *testing.T, cfg *config.Config) (*identity.Identifier, *catalog.Store) {
	t.Helper()

	cat := testsupport.MustOpenCatalog(t, cfg)
	hasher := hashing.NewFileHasher()
	engine := validation.NewEngine(cfg, logging.NewNop())
	return identity.NewIdentifier(cat, hasher, engine, cfg, logging.NewNop()), cat
}

func storeFile(t *testing.T, cat *catalog.Store, path string, contents []byte) string {
	t.Helper()

	testsupport.WriteFileContents(t, path, contents)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	hash, err := hashing.NewFileHasher().Hash(context.Background(), path, hashing.CRC32)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := cat.Upsert(context.Background(), path, hash, hashing.CRC32, info.Size(), filepath.Base(path), info.ModTime()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	return hash
}

func TestIdentifyDirectHit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, cat := newIdentifier(t, cfg)

	path := filepath.Join(t.TempDir(), "photo.jpg")
	hash := storeFile(t, cat, path, []byte("original pixels"))

	rec, moved := identifier.Identify(context.Background(), path)
	if rec == nil {
		t.Fatal("expected a record for an unchanged file")
	}
	if moved {
		t.Fatal("unchanged file must not report a move")
	}
	if rec.Hash != hash {
		t.Fatalf("hash = %q, want %q", rec.Hash, hash)
	}
}

func TestIdentifyUnknownFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, _ := newIdentifier(t, cfg)

	path := filepath.Join(t.TempDir(), "unseen.pdf")
	testsupport.WriteFileContents(t, path, []byte("never stored"))

	rec, moved := identifier.Identify(context.Background(), path)
	if rec != nil || moved {
		t.Fatalf("expected (nil, false) for unknown file, got (%+v, %v)", rec, moved)
	}
}

func TestIdentifyMovedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, cat := newIdentifier(t, cfg)

	oldPath := filepath.Join(t.TempDir(), "b.jpg")
	hash := storeFile(t, cat, oldPath, []byte("stable content"))

	newPath := filepath.Join(t.TempDir(), "b.jpg")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("rename: %v", err)
	}

	rec, moved := identifier.Identify(context.Background(), newPath)
	if rec == nil {
		t.Fatal("expected the moved file's record to be found")
	}
	if !moved {
		t.Fatal("expected the move to be reported")
	}
	if rec.Path != catalog.NormalizePath(newPath) {
		t.Fatalf("record path = %q, want %q", rec.Path, newPath)
	}
	if rec.Hash != hash {
		t.Fatalf("hash = %q, want %q", rec.Hash, hash)
	}

	// The rebind persisted: a direct lookup at the new path now succeeds
	// and the old path is gone.
	direct, err := cat.GetByPath(context.Background(), newPath, hashing.CRC32)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if direct == nil {
		t.Fatal("expected direct lookup at new path after rebind")
	}
	stale, err := cat.GetByPath(context.Background(), oldPath, hashing.CRC32)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if stale != nil {
		t.Fatal("old path should no longer resolve")
	}
}

func TestIdentifyMovedAndRenamedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, cat := newIdentifier(t, cfg)

	oldPath := filepath.Join(t.TempDir(), "draft.odt")
	storeFile(t, cat, oldPath, []byte("final manuscript"))

	newPath := filepath.Join(t.TempDir(), "manuscript-final.odt")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("rename: %v", err)
	}

	rec, moved := identifier.Identify(context.Background(), newPath)
	if rec == nil || !moved {
		t.Fatalf("expected rename to resolve via relaxed search, got (%+v, %v)", rec, moved)
	}
	if rec.Filename != "manuscript-final.odt" {
		t.Fatalf("filename = %q after rebind", rec.Filename)
	}
}

func TestIdentifyFileReplacedInPlace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, cat := newIdentifier(t, cfg)

	srcPath := filepath.Join(t.TempDir(), "master.bin")
	hash := storeFile(t, cat, srcPath, []byte("the real content"))

	// The destination is already tracked with other content, then gets the
	// source's bytes moved over it.
	dstPath := filepath.Join(t.TempDir(), "working.bin")
	storeFile(t, cat, dstPath, []byte("old"))
	if err := os.Rename(srcPath, dstPath); err != nil {
		t.Fatalf("rename: %v", err)
	}

	rec, moved := identifier.Identify(context.Background(), dstPath)
	if rec == nil {
		t.Fatal("expected the source record to follow the moved content")
	}
	if !moved {
		t.Fatal("expected the move to be reported")
	}
	if rec.Hash != hash {
		t.Fatalf("hash = %q, want %q", rec.Hash, hash)
	}
	if rec.Path != catalog.NormalizePath(dstPath) {
		t.Fatalf("record path = %q, want %q", rec.Path, dstPath)
	}

	// The displaced record is gone and the moved one owns the path.
	direct, err := cat.GetByPath(context.Background(), dstPath, hashing.CRC32)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if direct == nil || direct.Hash != hash {
		t.Fatalf("expected rebound record at destination, got %+v", direct)
	}
	stale, err := cat.GetByPath(context.Background(), srcPath, hashing.CRC32)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if stale != nil {
		t.Fatal("source path should no longer resolve")
	}
}

func TestIdentifyPrefersMostRecentCandidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	identifier, cat := newIdentifier(t, cfg)

	contents := []byte("identical twins")
	first := filepath.Join(t.TempDir(), "copy.bin")
	storeFile(t, cat, first, contents)
	time.Sleep(10 * time.Millisecond)
	second := filepath.Join(t.TempDir(), "copy.bin")
	storeFile(t, cat, second, contents)

	// Drop both files and probe a third path with the same content. The
	// newer record should win the tie.
	if err := os.Remove(first); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Remove(second); err != nil {
		t.Fatalf("remove: %v", err)
	}
	probe := filepath.Join(t.TempDir(), "copy.bin")
	testsupport.WriteFileContents(t, probe, contents)

	rec, moved := identifier.Identify(context.Background(), probe)
	if rec == nil || !moved {
		t.Fatalf("expected content match, got (%+v, %v)", rec, moved)
	}
	if older, err := cat.GetByPath(context.Background(), second, hashing.CRC32); err != nil {
		t.Fatalf("GetByPath: %v", err)
	} else if older != nil {
		t.Fatal("most recent record should have been the one rebound")
	}
}

func TestIdentifyContentLookupDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentLookupDisabled())
	identifier, cat := newIdentifier(t, cfg)

	oldPath := filepath.Join(t.TempDir(), "clip.mp4")
	storeFile(t, cat, oldPath, []byte("frames"))

	newPath := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("rename: %v", err)
	}

	rec, moved := identifier.Identify(context.Background(), newPath)
	if rec != nil || moved {
		t.Fatalf("expected (nil, false) with content lookup disabled, got (%+v, %v)", rec, moved)
	}
}

func TestIdentifyHashFailureDegrades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := testsupport.MustOpenCatalog(t, cfg)
	engine := validation.NewEngine(cfg, logging.NewNop())
	identifier := identity.NewIdentifier(cat, failingHasher{}, engine, cfg, logging.NewNop())

	path := filepath.Join(t.TempDir(), "unreadable.dat")
	testsupport.WriteFileContents(t, path, []byte("present but unhashable"))

	rec, moved := identifier.Identify(context.Background(), path)
	if rec != nil || moved {
		t.Fatalf("expected hash failure to degrade to (nil, false), got (%+v, %v)", rec, moved)
	}
}
