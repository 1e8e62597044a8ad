// Package validation decides whether cached hash records can still be
// trusted without rereading file contents. It compares live file metadata
// against the recorded modification time and size, and computes adaptive
// TTLs based on file category, size, and age.
package validation
