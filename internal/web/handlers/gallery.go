package handlers

import (
	"net/http"

	"facegate/internal/gallery"
)

// GalleryHandler exposes read-only gallery listings.
type GalleryHandler struct {
	store gallery.Store
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(store gallery.Store) *GalleryHandler {
	return &GalleryHandler{store: store}
}

// List returns enrolled labels with record counts. The optional `person`
// query parameter filters by normalized label (case and diacritic
// insensitive).
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	if person := r.URL.Query().Get("person"); person != "" {
		snapshot = snapshot.FilterByLabel(person)
	}

	labels := snapshot.Labels()
	if labels == nil {
		labels = []gallery.LabelCount{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"records": len(snapshot),
		"dim":     snapshot.Dim(),
		"labels":  labels,
	})
}
