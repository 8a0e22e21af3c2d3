package matcher

import "errors"

var (
	// ErrInvalidInput is a caller error (e.g. empty label); not retryable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProviderUnavailable covers transport failures, timeouts and malformed
	// responses from the embedding provider. The whole request may be retried.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrNoFaceDetected means the provider found no face in the image. It fails
	// an enrollment; during recognition it is a normal no-match outcome.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrDimensionMismatch means a vector does not match the dimensionality
	// established by the gallery. Indicates a provider/store inconsistency.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
