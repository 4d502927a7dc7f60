package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers never
// translate these themselves; the server's error handler maps each one to a
// transport status in a single place.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidReference = errors.New("invalid reference")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
)
