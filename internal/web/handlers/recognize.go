package handlers

import (
	"log"
	"net/http"

	"facegate/internal/matcher"
)

// RecognizeHandler handles face recognition requests.
type RecognizeHandler struct {
	matcher *matcher.Service
}

// NewRecognizeHandler creates a new recognition handler.
func NewRecognizeHandler(m *matcher.Service) *RecognizeHandler {
	return &RecognizeHandler{matcher: m}
}

// recognizeResponse keeps the original frontend contract: status "pass" with a
// name on a match, "fail" otherwise.
type recognizeResponse struct {
	Status string  `json:"status"`
	Name   string  `json:"name,omitempty"`
	Score  float64 `json:"score"`
}

// Recognize matches an uploaded photo against the gallery.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.matcher.Recognize(r.Context(), photo)
	if err != nil {
		log.Printf("recognition failed: %v", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	if result.Matched {
		respondJSON(w, http.StatusOK, recognizeResponse{Status: "pass", Name: result.Label, Score: result.Score})
		return
	}
	respondJSON(w, http.StatusOK, recognizeResponse{Status: "fail", Score: result.Score})
}
