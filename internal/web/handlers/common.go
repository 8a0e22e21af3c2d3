package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"facegate/internal/gallery"
	"facegate/internal/matcher"
	"facegate/internal/similarity"
)

// MaxUploadSize caps uploaded photo size (32 MB).
const MaxUploadSize = 32 << 20

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps matching errors to HTTP status codes.
func statusForError(err error) int {
	var dimErr *similarity.ErrDimensionMismatch
	switch {
	case errors.Is(err, matcher.ErrInvalidInput), errors.Is(err, matcher.ErrNoFaceDetected):
		return http.StatusBadRequest
	case errors.Is(err, matcher.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, matcher.ErrDimensionMismatch), errors.Is(err, gallery.ErrDimensionMismatch),
		errors.As(err, &dimErr), errors.Is(err, similarity.ErrDegenerateVector):
		return http.StatusConflict
	case errors.Is(err, gallery.ErrPersistFailed), errors.Is(err, gallery.ErrStoreCorrupt),
		errors.Is(err, gallery.ErrStoreUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// readUploadedPhoto extracts the photo from a multipart form under any of the
// accepted field names. The multipart temp state is released by the caller via
// request body close; the returned bytes are an in-memory copy.
func readUploadedPhoto(r *http.Request, fields ...string) ([]byte, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, err
	}

	for _, field := range fields {
		file, _, err := r.FormFile(field)
		if err != nil {
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, http.ErrMissingFile
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
