package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Content errors
	ErrContentNotFound = errors.New("content not found")
	ErrVersionNotFound = errors.New("content version not found")
	ErrSettingNotFound = errors.New("setting not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidKind  = errors.New("unrecognized content kind")
	ErrEmptyTitle   = errors.New("title is required")

	// Conflict errors (slug or version number collision past the retry budget)
	ErrConflict = errors.New("conflict")

	// Page navigation errors
	ErrPageOutOfRange = errors.New("page index out of range")

	// Storage errors wrap the underlying datastore failure
	ErrStorage = errors.New("storage unavailable")
)
