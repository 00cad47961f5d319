package errs

import "errors"

// Sentinel errors shared across the service. Callers classify with
// errors.Is; wrap with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrValidation covers malformed or missing caller input.
	ErrValidation = errors.New("validation failed")

	// ErrSlotUnavailable means the requested booking window overlaps an
	// existing reservation. Kept distinct from ErrValidation so the UI can
	// render a specific "not available" message.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrMalformedTime means a time-of-day string did not parse as HH:MM.
	ErrMalformedTime = errors.New("malformed time")

	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the record store timed out or is refusing
	// calls. Retryable by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)
