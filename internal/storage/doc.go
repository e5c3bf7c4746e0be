// Package storage defines the persistence capability set for the
// content-operations core.
//
// It declares plain record structs for the seven entity kinds, one
// capability interface per kind, and the composed Store interface the
// application depends on. Two interchangeable implementations live in
// subpackages: memory (volatile, process-local) and sqlite (durable).
// Both apply the same duplicate-detection and single-active-config
// policies so callers observe identical behavior regardless of which
// backend was selected at startup.
//
// # Error Types
//
//   - ErrNotFound: a requested record is missing.
//   - ErrConflict: a write violates uniqueness or invariant constraints.
//   - ErrUnavailable: the backing store could not be reached.
package storage
