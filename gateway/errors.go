package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"

	apperrors "github.com/hapsoo-labs/brewgate/internal/errors"
	"github.com/pkg/errors"
)

// StatusError carries a non-2xx backend response through to the caller
// untouched. Only 401 is resolved inside the gateway; everything else
// is the feature code's problem to present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server responded %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server responded %d", e.Code)
}

// Unwrap surfaces the sentinel behind well-known status codes, so
// callers can match with errors.Is instead of inspecting Code.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.Code == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Code >= http.StatusInternalServerError:
		return apperrors.ErrServerFault
	default:
		return nil
	}
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

// classifyTransport maps transport-level failures onto the client error
// taxonomy. Timeouts and connection failures carry distinct sentinels so
// callers can show distinct messages.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(apperrors.ErrTimeout, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(apperrors.ErrTimeout, err.Error())
	}
	return errors.Wrap(apperrors.ErrNetwork, err.Error())
}
