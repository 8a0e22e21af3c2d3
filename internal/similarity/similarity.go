// Package similarity implements cosine similarity scoring and exhaustive
// best-match search over a gallery.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"facegate/internal/gallery"
)

// ErrDegenerateVector is returned when a vector has zero magnitude; cosine
// similarity is undefined for it.
var ErrDegenerateVector = errors.New("degenerate vector: zero magnitude")

// ErrDimensionMismatch indicates a vector dimensionality mismatch. Stored and
// query vectors must share the dimensionality fixed by the embedding model.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Score computes the cosine similarity between two vectors: dot product
// divided by the product of magnitudes. The result is in [-1, 1], clamped
// against floating point error.
func Score(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateVector
	}

	// Single square root keeps Score(a,a) at exactly 1.0: the dot product then
	// equals normA and sqrt(normA*normA) is exact in IEEE arithmetic.
	score := dotProduct / math.Sqrt(normA*normB)
	// Clamp to [-1, 1] to handle floating point errors
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score, nil
}

// BestMatch scans the whole gallery and returns the record with the strictly
// highest score against the query, along with that score. Ties resolve to the
// earliest record (first-seen wins). An empty gallery yields (nil, -1.0).
//
// The scan is a deterministic full pass, O(records x dimension) per call.
// At the target scale (tens of thousands of records) this beats the bookkeeping
// cost of an index and keeps results exact.
func BestMatch(query []float32, g gallery.Gallery) (*gallery.IdentityRecord, float64, error) {
	best := math.Inf(-1)
	var bestRec *gallery.IdentityRecord

	for i := range g {
		score, err := Score(query, g[i].Vector)
		if err != nil {
			return nil, -1.0, fmt.Errorf("scoring record %s (%s): %w", g[i].ID, g[i].Label, err)
		}
		if score > best {
			best = score
			bestRec = &g[i]
		}
	}

	if bestRec == nil {
		return nil, -1.0, nil
	}
	return bestRec, best, nil
}
