// Package matcher orchestrates enrollment and recognition: it asks the
// embedding provider for face vectors, keeps the gallery consistent and
// applies the similarity threshold decision.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"facegate/internal/gallery"
	"facegate/internal/similarity"
)

// DefaultThreshold is the cosine similarity decision boundary. Scores strictly
// above it count as a match.
const DefaultThreshold = 0.6

// EmbeddingProvider converts an image into zero or more face embedding
// vectors, one per detected face, in detection order.
type EmbeddingProvider interface {
	Detect(ctx context.Context, imageData []byte) ([][]float32, error)
}

// MatchResult is the outcome of a recognition request. When Matched is false,
// Score still carries the best gallery score (-1.0 when the gallery is empty
// or no face was detected).
type MatchResult struct {
	Matched bool    `json:"matched"`
	Label   string  `json:"label,omitempty"`
	Score   float64 `json:"score"`
}

// Service is the matching engine. It owns no state of its own; the gallery
// lives in the store and every request works against a consistent snapshot.
type Service struct {
	store     gallery.Store
	provider  EmbeddingProvider
	threshold float64
}

// New creates a matching service. A zero threshold means unset and falls back
// to DefaultThreshold; a negative threshold is kept as configured (every
// scored candidate above it matches).
func New(store gallery.Store, provider EmbeddingProvider, threshold float64) *Service {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		store:     store,
		provider:  provider,
		threshold: threshold,
	}
}

// Threshold returns the configured decision boundary.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// Enroll extracts a face embedding from the image and appends it to the
// gallery under the given label. When the photo contains several faces, the
// first one returned by the provider wins. The record is durable before
// Enroll returns.
func (s *Service) Enroll(ctx context.Context, label string, imageData []byte) (*gallery.IdentityRecord, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: label must not be empty", ErrInvalidInput)
	}

	vector, err := s.detectFirstFace(ctx, imageData)
	if err != nil {
		return nil, err
	}

	if dim := s.store.Dim(); dim > 0 && len(vector) != dim {
		return nil, fmt.Errorf("%w: gallery dimension is %d, provider returned %d", ErrDimensionMismatch, dim, len(vector))
	}
	if isZero(vector) {
		return nil, fmt.Errorf("cannot enroll %q: %w", label, similarity.ErrDegenerateVector)
	}

	rec := gallery.IdentityRecord{
		ID:        uuid.New().String(),
		Label:     label,
		Vector:    vector,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recognize extracts a face embedding from the image and searches the gallery
// for the best match. No face in the image is a normal no-match outcome, not
// an error. Recognition never mutates state.
func (s *Service) Recognize(ctx context.Context, imageData []byte) (MatchResult, error) {
	vectors, err := s.provider.Detect(ctx, imageData)
	if err != nil {
		return MatchResult{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(vectors) == 0 {
		return MatchResult{Matched: false, Score: -1.0}, nil
	}
	query := vectors[0]

	snapshot := s.store.Snapshot()
	rec, score, err := similarity.BestMatch(query, snapshot)
	if err != nil {
		return MatchResult{}, err
	}

	// Strict greater-than: a score exactly at the threshold does not match.
	if rec != nil && score > s.threshold {
		return MatchResult{Matched: true, Label: rec.Label, Score: score}, nil
	}
	return MatchResult{Matched: false, Score: score}, nil
}

// detectFirstFace calls the provider and applies the enrollment face policy.
func (s *Service) detectFirstFace(ctx context.Context, imageData []byte) ([]float32, error) {
	vectors, err := s.provider.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, ErrNoFaceDetected
	}
	return vectors[0], nil
}

func isZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}
