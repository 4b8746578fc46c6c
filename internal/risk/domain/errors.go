package domain

import "errors"

var (
	// ErrVendorNameRequired is the only request-level validation failure:
	// a vendor entry without a name cannot be screened.
	ErrVendorNameRequired = errors.New("vendor name is required")

	// ErrIndexUnavailable means the semantic index is not configured or
	// not reachable. Callers degrade instead of failing.
	ErrIndexUnavailable = errors.New("semantic index unavailable")

	// ErrRunNotFound is returned when a stored run ID does not exist.
	ErrRunNotFound = errors.New("run not found")
)
