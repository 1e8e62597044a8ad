// Package catalog persists file identity records in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// two-table layout the cache core queries: a files table keyed by normalized
// path joined to a file_hashes table keyed by (file_id, algorithm). Paths are
// stored absolute, cleaned, and Unicode NFC so equivalent spellings collide
// to one key; hashes are stored lowercase.
//
// The database is a rebuildable cache, not an archive: schema changes bump
// the version in schema.go and users delete the file to adopt the new schema.
// A flock lock file beside the database keeps a second cairn process from
// writing concurrently; reads within one process go through database/sql's
// connection pool.
package catalog
