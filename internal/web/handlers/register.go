package handlers

import (
	"errors"
	"log"
	"net/http"

	"facegate/internal/matcher"
)

// RegisterHandler handles face enrollment requests.
type RegisterHandler struct {
	matcher *matcher.Service
}

// NewRegisterHandler creates a new enrollment handler.
func NewRegisterHandler(m *matcher.Service) *RegisterHandler {
	return &RegisterHandler{matcher: m}
}

// Register enrolls a face: multipart form with a `name` field and a `photo`
// file (the original frontend posts the file as `photo`).
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Multipart form data may spill to disk for large uploads; release it on
	// every exit path.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	photo, err := readUploadedPhoto(r, "photo", "file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file is required")
		return
	}

	name := r.FormValue("name")
	rec, err := h.matcher.Enroll(r.Context(), name, photo)
	if err != nil {
		status := statusForError(err)
		if errors.Is(err, matcher.ErrNoFaceDetected) {
			respondError(w, status, "no face detected in the photo")
			return
		}
		log.Printf("enrollment for %q failed: %v", sanitizeForLog(name), err)
		respondError(w, status, err.Error())
		return
	}

	log.Printf("enrolled %q (record %s, dim %d)", sanitizeForLog(rec.Label), rec.ID, len(rec.Vector))
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      rec.ID,
		"label":   rec.Label,
	})
}
