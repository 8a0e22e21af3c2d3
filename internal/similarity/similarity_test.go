package similarity

import (
	"errors"
	"math"
	"testing"

	"facegate/internal/gallery"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{-1, 0, 0},
			expected: -1.0,
		},
		{
			name:     "scaled vectors are identical by angle",
			a:        []float32{1, 1},
			b:        []float32{5, 5},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScore_Symmetry(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{2.2, 0.9, -0.4, 1.7}

	ab, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score(a,b) failed: %v", err)
	}
	ba, err := Score(b, a)
	if err != nil {
		t.Fatalf("Score(b,a) failed: %v", err)
	}
	if ab != ba {
		t.Errorf("Score not symmetric: %v vs %v", ab, ba)
	}
}

func TestScore_SelfIdentity(t *testing.T) {
	a := []float32{0.7, -0.2, 1.9}
	got, err := Score(a, a)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if got != 1.0 {
		t.Errorf("Score(a,a) = %v, want exactly 1.0", got)
	}
}

func TestScore_DimensionMismatch(t *testing.T) {
	_, err := Score([]float32{1, 2}, []float32{1, 2, 3})
	var dimErr *ErrDimensionMismatch
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if dimErr.Expected != 2 || dimErr.Actual != 3 {
		t.Errorf("expected 2 vs 3 in error, got %d vs %d", dimErr.Expected, dimErr.Actual)
	}
}

func TestScore_DegenerateVector(t *testing.T) {
	if _, err := Score([]float32{0, 0}, []float32{1, 0}); !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("zero first vector: expected ErrDegenerateVector, got %v", err)
	}
	if _, err := Score([]float32{1, 0}, []float32{0, 0}); !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("zero second vector: expected ErrDegenerateVector, got %v", err)
	}
}

func TestBestMatch_EmptyGallery(t *testing.T) {
	rec, score, err := BestMatch([]float32{1, 0}, gallery.Gallery{})
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}
	if score != -1.0 {
		t.Errorf("score = %v, want -1.0", score)
	}
}

func TestBestMatch_PicksHighestScore(t *testing.T) {
	g := gallery.Gallery{
		{ID: "1", Label: "alice", Vector: []float32{1, 0, 0, 0}},
		{ID: "2", Label: "bob", Vector: []float32{0, 1, 0, 0}},
	}

	rec, score, err := BestMatch([]float32{0.9, 0.1, 0, 0}, g)
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if rec == nil || rec.Label != "alice" {
		t.Fatalf("expected alice, got %+v", rec)
	}
	// cos = 0.9 / sqrt(0.82) ~ 0.9939
	if math.Abs(score-0.9938) > 0.001 {
		t.Errorf("score = %v, want ~0.994", score)
	}
}

func TestBestMatch_TieResolvesToEarliestRecord(t *testing.T) {
	g := gallery.Gallery{
		{ID: "1", Label: "first", Vector: []float32{1, 0}},
		{ID: "2", Label: "same-direction", Vector: []float32{2, 0}},
		{ID: "3", Label: "also-same", Vector: []float32{3, 0}},
	}

	rec, score, err := BestMatch([]float32{1, 0}, g)
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if rec == nil || rec.ID != "1" {
		t.Fatalf("tie should resolve to the earliest record, got %+v", rec)
	}
	if score != 1.0 {
		t.Errorf("score = %v, want 1.0", score)
	}
}

func TestBestMatch_OppositeOnlyRecordStillReturned(t *testing.T) {
	g := gallery.Gallery{
		{ID: "1", Label: "opposite", Vector: []float32{-1, 0}},
	}

	rec, score, err := BestMatch([]float32{1, 0}, g)
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if rec == nil || rec.Label != "opposite" {
		t.Fatalf("expected the only record back, got %+v", rec)
	}
	if score != -1.0 {
		t.Errorf("score = %v, want -1.0", score)
	}
}

func TestBestMatch_Deterministic(t *testing.T) {
	g := gallery.Gallery{
		{ID: "1", Label: "alice", Vector: []float32{0.5, 0.5, 0.1}},
		{ID: "2", Label: "bob", Vector: []float32{0.1, 0.9, 0.3}},
		{ID: "3", Label: "carol", Vector: []float32{0.7, 0.2, 0.6}},
	}
	query := []float32{0.4, 0.6, 0.2}

	firstRec, firstScore, err := BestMatch(query, g)
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		rec, score, err := BestMatch(query, g)
		if err != nil {
			t.Fatalf("BestMatch failed on run %d: %v", i, err)
		}
		if rec.ID != firstRec.ID || score != firstScore {
			t.Fatalf("run %d differs: got (%s, %v), want (%s, %v)", i, rec.ID, score, firstRec.ID, firstScore)
		}
	}
}

func TestBestMatch_MismatchedRecordSurfacesError(t *testing.T) {
	g := gallery.Gallery{
		{ID: "1", Label: "alice", Vector: []float32{1, 0, 0}},
	}

	_, _, err := BestMatch([]float32{1, 0}, g)
	var dimErr *ErrDimensionMismatch
	if !errors.As(err, &dimErr) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
