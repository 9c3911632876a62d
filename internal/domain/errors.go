package domain

import "errors"

// ErrNotFound is returned when a helpline id is neither in the cached
// directory nor in the client's favorites.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails a client-side
// rule (e.g. missing required field, rating outside 1..5).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnavailable is returned when the remote directory or review service
// rejects a request or cannot be reached.
var ErrUnavailable = errors.New("remote service unavailable")
