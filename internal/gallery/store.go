package gallery

import (
	"context"
	"errors"
)

// Store errors. Callers match with errors.Is; concrete stores wrap these with
// detail about the underlying failure.
var (
	// ErrStoreCorrupt means persisted data is not a well-formed record sequence.
	ErrStoreCorrupt = errors.New("gallery store corrupt")
	// ErrStoreUnavailable means the underlying medium cannot be read.
	ErrStoreUnavailable = errors.New("gallery store unavailable")
	// ErrPersistFailed means an append could not be made durable. The in-memory
	// gallery is left at its pre-append state.
	ErrPersistFailed = errors.New("gallery persist failed")
	// ErrDimensionMismatch means an appended record does not match the
	// dimensionality already established by the gallery.
	ErrDimensionMismatch = errors.New("gallery dimension mismatch")
)

// Store owns the gallery: the single shared mutable resource of the matching
// engine. Appends are serialized by a writer lock; Snapshot returns an
// immutable gallery value that concurrent appends never touch (append builds a
// new value instead of mutating in place).
type Store interface {
	// Load reads durable state into memory. Missing storage is not an error and
	// yields an empty gallery (first run).
	Load(ctx context.Context) error
	// Append adds one record and makes the updated gallery durable before
	// returning. The persisted state never reflects a partial write. A record
	// whose dimension differs from the established one is rejected with
	// ErrDimensionMismatch.
	Append(ctx context.Context, rec IdentityRecord) error
	// Snapshot returns the current gallery for searching. The returned value is
	// immutable and decoupled from concurrent appends.
	Snapshot() Gallery
	// Count returns the number of records currently enrolled.
	Count() int
	// Dim returns the established vector dimensionality (0 when empty).
	Dim() int
	// Close releases store resources.
	Close()
}
