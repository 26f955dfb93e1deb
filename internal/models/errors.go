package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Login outcomes
	ErrInvalidPassword = errors.New("invalid password")
	ErrRateLimited     = errors.New("too many failed attempts")

	// Backend collaborator failures
	ErrNotConfigured      = errors.New("backend is not configured")
	ErrServiceUnavailable = errors.New("backend is unavailable")
)
