package gateway

import (
	"context"
	"net/http"

	apperrors "github.com/hapsoo-labs/brewgate/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const refreshPath = "/api/auth/refresh"

// refreshSession coalesces concurrent refresh attempts: when several
// in-flight requests fail with 401 at roughly the same time, they all
// wait on one refresh round trip instead of racing redundant ones (a
// stale in-flight refresh could otherwise overwrite rotated tokens).
func (c *Client) refreshSession(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("session-refresh", func() (interface{}, error) {
		// The shared round trip must not die with whichever caller
		// happened to start it; the HTTP client timeout still bounds
		// the call.
		return nil, c.refreshOnce(context.WithoutCancel(ctx))
	})
	return err
}

func (c *Client) refreshOnce(ctx context.Context) error {
	// No network call without a full credential pair.
	cred, ok := c.store.Credential()
	if !ok {
		return apperrors.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, nil)
	if err != nil {
		return errors.Wrap(err, "[Gateway.refreshOnce] build request")
	}
	req.Header.Set(RefreshTokenHeader, cred.RefreshToken)
	req.Header.Set(SessionIDHeader, cred.SessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		// The backend rotates whichever tokens it chooses to; a header
		// it omits keeps its previous value.
		sessionID, refreshToken := cred.SessionID, cred.RefreshToken
		if v := resp.Header.Get(SessionIDHeader); v != "" {
			sessionID = v
		}
		if v := resp.Header.Get(RefreshTokenHeader); v != "" {
			refreshToken = v
		}
		if err := c.store.SetCredential(sessionID, refreshToken); err != nil {
			return errors.Wrap(err, "[Gateway.refreshOnce] store credential")
		}
		log.Debug().Msg("session refreshed")
		return nil
	case http.StatusConflict:
		return apperrors.ErrSessionConflict
	default:
		return errors.Wrapf(apperrors.ErrSessionExpired, "refresh responded %d", resp.StatusCode)
	}
}
