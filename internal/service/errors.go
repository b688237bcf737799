package service

import "errors"

var (
	// ErrInvalidInput: malformed email, weak password, bad identifier.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAuthenticationFailed covers both unknown email and wrong password.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotAuthenticated     = errors.New("not authenticated")
	// ErrUpstream wraps database and catalog failures; details are for logs only.
	ErrUpstream = errors.New("upstream failure")
	ErrNotFound = errors.New("not found")
)
