package errors

import "errors"

// Common error types for the seller console client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrMalformedResponse  = errors.New("malformed server response")

	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionConflict  = errors.New("logged in elsewhere")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Transport errors
	ErrNetwork = errors.New("network unavailable")
	ErrTimeout = errors.New("request timed out")

	// General errors
	ErrServerFault = errors.New("server error")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("no permission")
)
