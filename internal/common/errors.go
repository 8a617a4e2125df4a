// Package common defines shared constants and sentinel errors used across
// the chanvault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrMissingToken            = errors.New("missing token")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Ownership gate for content mutations and cross-user reads.
	ErrForbidden = errors.New("not authorized")

	// Payload policy violations (empty/oversize text, missing/oversize file).
	ErrValidation = errors.New("validation error")

	// Index row exists but the backing store no longer has the object.
	ErrNotFoundInStorage = errors.New("not found on storage")

	// Operation not applicable to the content kind (editing non-text).
	ErrUnsupported = errors.New("unsupported operation")
)
