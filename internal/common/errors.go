// Package common defines shared sentinel errors used across the service and
// transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized covers every authentication failure: unknown email,
	// wrong password, invalid/expired/replayed renewal token, deactivated
	// account. One value, one message, so callers cannot tell the causes apart.
	ErrorUnauthorized = errors.New("invalid credentials")

	// Validation errors with user-actionable messages. These reveal nothing
	// attacker-useful, so they stay specific.
	ErrPasswordsDoNotMatch      = errors.New("passwords do not match")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrPasswordUnchanged        = errors.New("new password must differ from the current one")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
