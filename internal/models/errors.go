package models

import "errors"

// Failure taxonomy for the redemption path. Handlers map these to HTTP
// statuses; anything not in this list is an internal error.
//
// A claim lost to a concurrent request surfaces as ErrTokenUsed: after the
// fact the two cases are indistinguishable, and callers must not be able to
// tell them apart.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenUsed           = errors.New("token has already been used")
	ErrTokenDeleted        = errors.New("token has been deactivated")
	ErrTokenExpired        = errors.New("token has expired")
	ErrNoSelectableOutcome = errors.New("no selectable outcome")

	// ErrTransient wraps persistence-layer faults where no claim succeeded.
	// Retrying with the same token code is safe.
	ErrTransient = errors.New("transient storage failure")
)
