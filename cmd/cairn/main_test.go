package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashAndLookup(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "photo.jpg", []byte("pixels"))

	out, _, err := runCLI(t, env, "hash", path)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	requireContains(t, out, path)

	out, _, err = runCLI(t, env, "lookup", path)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	hash := strings.TrimSpace(out)
	if len(hash) != 8 {
		t.Fatalf("expected a crc32 hex digest, got %q", hash)
	}
}

func TestHashDirectoryRequiresRecursive(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "files")
	writeDataFile(t, dir, "a.txt", []byte("a"))

	if _, _, err := runCLI(t, env, "hash", dir); err == nil {
		t.Fatal("expected an error for a directory without --recursive")
	}
	if _, _, err := runCLI(t, env, "hash", "--recursive", dir); err != nil {
		t.Fatalf("hash -r: %v", err)
	}
}

func TestLookupMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "unseen.txt", []byte("x"))

	if _, _, err := runCLI(t, env, "lookup", path); err == nil {
		t.Fatal("expected an error for a path with no stored hash")
	}
}

func TestIdentifyAfterRename(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "files")
	oldPath := writeDataFile(t, dir, "before.bin", []byte("same bytes"))

	if _, _, err := runCLI(t, env, "hash", oldPath); err != nil {
		t.Fatalf("hash: %v", err)
	}

	newPath := filepath.Join(dir, "after.bin")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("rename: %v", err)
	}

	out, _, err := runCLI(t, env, "identify", newPath)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	requireContains(t, out, "Moved:     yes")
	requireContains(t, out, newPath)
}

func TestVerifyDetectsModification(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "doc.txt", []byte("original"))

	if _, _, err := runCLI(t, env, "hash", path); err != nil {
		t.Fatalf("hash: %v", err)
	}

	out, _, err := runCLI(t, env, "verify", path)
	if err != nil {
		t.Fatalf("verify clean file: %v", err)
	}
	requireContains(t, out, "ok")

	if err := os.WriteFile(path, []byte("tampered"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	out, _, err = runCLI(t, env, "verify", path)
	if err == nil {
		t.Fatal("expected verify to fail after modification")
	}
	requireContains(t, out, "mismatch")
}

func TestInvalidateRemovesHash(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "gone.txt", []byte("bye"))

	if _, _, err := runCLI(t, env, "hash", path); err != nil {
		t.Fatalf("hash: %v", err)
	}
	out, _, err := runCLI(t, env, "invalidate", path)
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	requireContains(t, out, "Removed 1 of 1")

	if _, _, err := runCLI(t, env, "lookup", path); err == nil {
		t.Fatal("expected lookup to fail after invalidate")
	}
}

func TestDuplicatesGroupsIdenticalFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "files")
	writeDataFile(t, dir, "one.bin", []byte("twin content"))
	writeDataFile(t, dir, "two.bin", []byte("twin content"))
	writeDataFile(t, dir, "odd.bin", []byte("unique content"))

	if _, _, err := runCLI(t, env, "hash", "--recursive", dir); err != nil {
		t.Fatalf("hash: %v", err)
	}

	out, _, err := runCLI(t, env, "duplicates", "--recursive", dir)
	if err != nil {
		t.Fatalf("duplicates: %v", err)
	}
	requireContains(t, out, "one.bin")
	requireContains(t, out, "two.bin")
	if strings.Contains(out, "odd.bin") {
		t.Fatal("singleton file must not appear in duplicate groups")
	}
}

func TestSweepRemovesOrphans(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "temp.txt", []byte("short lived"))

	if _, _, err := runCLI(t, env, "hash", path); err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	out, _, err := runCLI(t, env, "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "Removed 1 orphaned records")
}

func TestStatsReportsCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "counted.txt", []byte("data"))

	if _, _, err := runCLI(t, env, "hash", path); err != nil {
		t.Fatalf("hash: %v", err)
	}

	out, _, err := runCLI(t, env, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Tracked files")
	requireContains(t, out, "Stored hashes")
}

func TestEstimateFloor(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "files")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeDataFile(t, dir, name, nil)
	}

	out, _, err := runCLI(t, env, "estimate", "--operation", "hash_calculation", "--recursive", dir)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	requireContains(t, out, "Estimated time:   1.0s")
	requireContains(t, out, "Proceed:          yes")
}

func TestEstimateRejectsUnknownOperation(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeDataFile(t, filepath.Join(env.baseDir, "files"), "a.txt", []byte("x"))

	if _, _, err := runCLI(t, env, "estimate", "--operation", "teleportation", path); err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
}
