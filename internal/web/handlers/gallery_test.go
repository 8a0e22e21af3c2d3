package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"facegate/internal/gallery"
)

func TestGalleryList(t *testing.T) {
	_, store := newTestMatcher(t, &fakeProvider{})
	ctx := context.Background()

	records := []gallery.IdentityRecord{
		{ID: "1", Label: "Jiří Novák", Vector: []float32{1, 0}},
		{ID: "2", Label: "alice", Vector: []float32{0, 1}},
		{ID: "3", Label: "alice", Vector: []float32{1, 1}},
	}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	handler := NewGalleryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	body := decodeJSONBody(t, rec)
	if body["records"].(float64) != 3 {
		t.Errorf("records = %v, want 3", body["records"])
	}
	if body["dim"].(float64) != 2 {
		t.Errorf("dim = %v, want 2", body["dim"])
	}
	labels := body["labels"].([]any)
	if len(labels) != 2 {
		t.Errorf("expected 2 labels, got %d", len(labels))
	}
}

func TestGalleryList_PersonFilter(t *testing.T) {
	_, store := newTestMatcher(t, &fakeProvider{})
	ctx := context.Background()

	if err := store.Append(ctx, gallery.IdentityRecord{ID: "1", Label: "Jiří Novák", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, gallery.IdentityRecord{ID: "2", Label: "alice", Vector: []float32{0, 1}}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	handler := NewGalleryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery?person=jiri-novak", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	body := decodeJSONBody(t, rec)
	if body["records"].(float64) != 1 {
		t.Errorf("records = %v, want 1", body["records"])
	}
}

func TestGalleryList_Empty(t *testing.T) {
	_, store := newTestMatcher(t, &fakeProvider{})
	handler := NewGalleryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	body := decodeJSONBody(t, rec)
	if body["records"].(float64) != 0 {
		t.Errorf("records = %v, want 0", body["records"])
	}
	if labels, ok := body["labels"].([]any); !ok || len(labels) != 0 {
		t.Errorf("labels = %v, want empty array", body["labels"])
	}
}
