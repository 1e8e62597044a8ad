// Package identity resolves files to their cached catalog records even
// after they have been moved or renamed on disk. A direct path lookup is
// tried first; when that misses or looks stale, the file's content hash is
// recomputed and matched against stored signatures so previously computed
// work can follow the file to its new location.
package identity
