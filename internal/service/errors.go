package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrNotConfigured marks an operation that needs an external backend
	// the deployment runs without. The server starts degraded instead of
	// failing when Cognito or S3 is not configured; the affected endpoints
	// report this instead of panicking on a nil client.
	ErrNotConfigured = errors.New("not configured")

	// ErrProfileUpdate covers a failed (or partially failed) paired write
	// of the identity-provider profile and its document-store mirror. The
	// succeeded half is not rolled back; callers report one generic
	// failure and tolerate transient divergence between the two stores.
	ErrProfileUpdate = errors.New("profile update failed")
)
