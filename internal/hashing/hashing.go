package hashing

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"strings"
)

// Algorithm identifies a supported content hash algorithm.
type Algorithm string

const (
	// CRC32 is the default algorithm: a cheap 32-bit content checksum that is
	// adequate for move detection when combined with size and filename.
	CRC32  Algorithm = "crc32"
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

// DefaultAlgorithm is the algorithm used when callers do not request one.
const DefaultAlgorithm = CRC32

// ParseAlgorithm maps a user-supplied name to a known Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case CRC32:
		return CRC32, nil
	case MD5:
		return MD5, nil
	case SHA1:
		return SHA1, nil
	case SHA256:
		return SHA256, nil
	case "":
		return DefaultAlgorithm, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", name)
	}
}

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case CRC32:
		return crc32.NewIEEE(), nil
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", a)
	}
}

// Hasher computes content hashes for files on disk. Implementations return an
// error when the file cannot be read; callers in the cache core treat that as
// "hash unavailable" rather than a fatal condition.
type Hasher interface {
	Hash(ctx context.Context, path string, algorithm Algorithm) (string, error)
}

// FileHasher streams file contents through the requested hash function.
type FileHasher struct{}

// NewFileHasher returns the repository's standard file hasher.
func NewFileHasher() *FileHasher {
	return &FileHasher{}
}

// Hash computes the lowercase hex digest of the file at path.
func (FileHasher) Hash(ctx context.Context, path string, algorithm Algorithm) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	hasher, err := algorithm.newHash()
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
