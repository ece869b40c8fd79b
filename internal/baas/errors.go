package baas

import "errors"

var (
	// Identity errors.
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Permission errors.
	ErrForbidden = errors.New("forbidden")

	// Document and file errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Transport errors: the backend rejected the request or could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
)
