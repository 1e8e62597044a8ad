// Package hashstore layers a concurrent in-memory hot cache over the
// durable catalog and tracks hit/miss statistics.
//
// The hot cache favors availability: a hash that fails to persist is still
// served for the remainder of the process lifetime, and catalog failures
// degrade lookups to a miss rather than an error. Integrity verification
// distinguishes "no record", "could not recompute", and "mismatch".
package hashstore
