package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the gallery as a single JSON document. Every append
// rewrites the whole file through a temp-file rename, so the durable copy is
// always a complete gallery, never a torn one. Simple on purpose: enrollment
// is interactive and writes are rare.
type FileStore struct {
	path string

	mu      sync.RWMutex
	gallery Gallery
}

// NewFileStore creates a file-backed store at the given path.
// Call Load before use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the gallery file. A missing file yields an empty gallery.
func (s *FileStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path) //nolint:gosec // path is from trusted config
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.gallery = Gallery{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrStoreUnavailable, s.path, err)
	}

	var g Gallery
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrStoreCorrupt, s.path, err)
	}
	if err := validate(g); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	s.mu.Lock()
	s.gallery = g
	s.mu.Unlock()
	return nil
}

// validate checks the loaded gallery invariants: non-empty labels, non-empty
// vectors, uniform dimensionality.
func validate(g Gallery) error {
	dim := g.Dim()
	for i, rec := range g {
		if rec.Label == "" {
			return fmt.Errorf("record %d has an empty label", i)
		}
		if len(rec.Vector) == 0 {
			return fmt.Errorf("record %d (%s) has an empty vector", i, rec.Label)
		}
		if len(rec.Vector) != dim {
			return fmt.Errorf("record %d (%s) has dimension %d, expected %d", i, rec.Label, len(rec.Vector), dim)
		}
	}
	return nil
}

// Append adds one record and flushes the whole gallery atomically. On flush
// failure the in-memory gallery keeps its pre-append value.
func (s *FileStore) Append(ctx context.Context, rec IdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check dimensionality under the writer lock. Callers check against
	// Dim() first, but two concurrent first enrollments can both observe an
	// empty gallery; without this the second append would persist a file the
	// next Load rejects as corrupt.
	if dim := s.gallery.Dim(); dim > 0 && len(rec.Vector) != dim {
		return fmt.Errorf("%w: record %s (%s) has dimension %d, expected %d",
			ErrDimensionMismatch, rec.ID, rec.Label, len(rec.Vector), dim)
	}

	// Build a new gallery value instead of mutating in place, so snapshots
	// handed out earlier stay valid.
	updated := make(Gallery, len(s.gallery), len(s.gallery)+1)
	copy(updated, s.gallery)
	updated = append(updated, rec)

	if err := s.flush(updated); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.gallery = updated
	return nil
}

// flush writes the gallery to a temp file in the target directory and renames
// it over the real file. Rename is atomic on POSIX filesystems.
func (s *FileStore) flush(g Gallery) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling gallery: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing gallery file: %w", err)
	}
	return nil
}

// Snapshot returns the current gallery. The read lock is held only to copy the
// slice header; appends never mutate a published gallery value, so the
// snapshot stays consistent while concurrent appends proceed.
func (s *FileStore) Snapshot() Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery
}

// Count returns the number of enrolled records.
func (s *FileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gallery)
}

// Dim returns the established vector dimensionality (0 when empty).
func (s *FileStore) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery.Dim()
}

// Close is a no-op for the file store; it holds no open handles between calls.
func (s *FileStore) Close() {}
