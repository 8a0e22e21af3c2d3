package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"facegate/internal/gallery"
	"facegate/internal/matcher"
)

// fakeProvider returns canned vectors keyed by image content.
type fakeProvider struct {
	vectors map[string][][]float32
	err     error
}

func (f *fakeProvider) Detect(ctx context.Context, imageData []byte) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[string(imageData)], nil
}

// newTestMatcher creates a matching service over a file store in a temp dir.
func newTestMatcher(t *testing.T, provider matcher.EmbeddingProvider) (*matcher.Service, gallery.Store) {
	t.Helper()
	store := gallery.NewFileStore(filepath.Join(t.TempDir(), "gallery.json"))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return matcher.New(store, provider, 0.6), store
}

// multipartPhotoRequest builds a multipart request with a photo part and
// optional extra form fields.
func multipartPhotoRequest(t *testing.T, path string, photo []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", "photo.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatalf("failed to write photo: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// assertStatusCode fails the test if the recorded status differs.
func assertStatusCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// decodeJSONBody decodes the response body into a map.
func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}
