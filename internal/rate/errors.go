package rate

import "errors"

var (
	// ErrLimited means the attempt budget for the window is exhausted.
	ErrLimited = errors.New("rate limited")
	// ErrBackendUnavailable wraps Redis transport failures.
	ErrBackendUnavailable = errors.New("rate limit backend unavailable")
)
