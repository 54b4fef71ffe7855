package auth

import (
	apperrors "github.com/hapsoo-labs/brewgate/internal/errors"
	"github.com/pkg/errors"
)

// UserMessage maps a client error onto the message shown to the seller.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "Email or password does not match."
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return "That account does not exist."
	case errors.Is(err, apperrors.ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, apperrors.ErrNotFound):
		return "The requested item could not be found."
	case errors.Is(err, apperrors.ErrServerFault):
		return "A server error occurred. Please try again shortly."
	case errors.Is(err, apperrors.ErrNetwork):
		return "Cannot reach the server. Check that the backend is running."
	case errors.Is(err, apperrors.ErrTimeout):
		return "The request timed out. Please try again."
	case errors.Is(err, apperrors.ErrSessionConflict):
		return "Signed in from another device. You have been logged out."
	case errors.Is(err, apperrors.ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, apperrors.ErrMalformedResponse):
		return "The server response was missing session data."
	default:
		return "Something went wrong. Check your network connection and try again."
	}
}
