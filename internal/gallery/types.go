package gallery

import (
	"time"
)

// IdentityRecord is one enrolled face: a label and the embedding vector
// computed for it. Records are immutable once created. Labels are not unique;
// multiple records may share a label (several photos of the same person).
type IdentityRecord struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Vector    []float32 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// Gallery is the insertion-ordered collection of enrolled records.
// All vectors in a gallery have the same dimensionality.
type Gallery []IdentityRecord

// Dim returns the vector dimensionality of the gallery, or 0 if it is empty.
// The first enrolled record establishes the dimension.
func (g Gallery) Dim() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0].Vector)
}

// Labels returns the number of records per label, preserving first-seen order.
func (g Gallery) Labels() []LabelCount {
	counts := make(map[string]int, len(g))
	var order []string
	for _, rec := range g {
		if _, seen := counts[rec.Label]; !seen {
			order = append(order, rec.Label)
		}
		counts[rec.Label]++
	}

	result := make([]LabelCount, 0, len(order))
	for _, label := range order {
		result = append(result, LabelCount{Label: label, Records: counts[label]})
	}
	return result
}

// LabelCount is a gallery listing entry.
type LabelCount struct {
	Label   string `json:"label"`
	Records int    `json:"records"`
}
