// Package hashing is the content hashing boundary for the identity cache.
//
// It defines the Algorithm enum, the Hasher capability consumed by the
// hashstore and identity packages, and a streaming file implementation.
// CRC32 is the default: identity resolution pairs the checksum with file size
// and filename, so a 32-bit digest keeps rehash cost low without giving up
// practical collision resistance for move detection.
package hashing
