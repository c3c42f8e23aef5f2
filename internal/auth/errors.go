package auth

import "errors"

var (
	// ErrNotFound means no principal matched the login identifier.
	ErrNotFound = errors.New("principal not found")
	// ErrInvalidCredential means the password check failed.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrForbidden covers role switches to unheld roles and provisioning
	// above authority.
	ErrForbidden = errors.New("forbidden")
)
