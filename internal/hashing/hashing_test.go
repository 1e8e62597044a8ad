package hashing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cairn/internal/hashing"
)

func TestHashKnownDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	hasher := hashing.NewFileHasher()
	ctx := context.Background()

	cases := []struct {
		algorithm hashing.Algorithm
		want      string
	}{
		{hashing.CRC32, "0d4a1185"},
		{hashing.MD5, "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{hashing.SHA1, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{hashing.SHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}
	for _, tc := range cases {
		got, err := hasher.Hash(ctx, path, tc.algorithm)
		if err != nil {
			t.Fatalf("%s: Hash failed: %v", tc.algorithm, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.algorithm, got, tc.want)
		}
	}
}

func TestHashMissingFile(t *testing.T) {
	hasher := hashing.NewFileHasher()
	if _, err := hasher.Hash(context.Background(), filepath.Join(t.TempDir(), "absent"), hashing.CRC32); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHashCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hasher := hashing.NewFileHasher()
	if _, err := hasher.Hash(ctx, "irrelevant", hashing.CRC32); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		input   string
		want    hashing.Algorithm
		wantErr bool
	}{
		{"crc32", hashing.CRC32, false},
		{"SHA256", hashing.SHA256, false},
		{" md5 ", hashing.MD5, false},
		{"", hashing.CRC32, false},
		{"whirlpool", "", true},
	}
	for _, tc := range cases {
		got, err := hashing.ParseAlgorithm(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}
