package coach

import "errors"

var (
	// ErrInvalidInput is returned for malformed session signals or check-in data,
	// before anything is read or written.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable wraps document store failures; the operation can be retried.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrDocumentNotFound is returned by stores for unknown users.
	ErrDocumentNotFound = errors.New("document not found")
)
