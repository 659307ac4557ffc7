package status

import "errors"

// Every failure the engine reports wraps one of these sentinels so callers
// can branch with errors.Is and map them to their own error surface.
var (
	// ErrValidation covers empty or malformed payloads and zero timestamps
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized covers owner-only operations invoked by someone else
	ErrUnauthorized = errors.New("not authorized")
	// ErrNotFound covers ids that do not exist or do not belong together
	ErrNotFound = errors.New("not found")
)
