// Command cairn is the CLI for the cairn file identity cache. It hashes
// files, resolves them back to cached records after moves and renames,
// verifies stored hashes, and reports on cache health.
package main
