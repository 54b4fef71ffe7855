package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hapsoo-labs/brewgate/internal/config"
	"github.com/hapsoo-labs/brewgate/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Request headers understood by the seller console backend.
const (
	SessionIDHeader    = "X-Session-Id"
	RefreshTokenHeader = "X-Refresh-Token"
	requestIDHeader    = "X-Request-Id"
)

// SessionExpiredFunc is invoked after a failed refresh has cleared the
// store, in place of the browser console's hard redirect to the login
// view. The error is ErrSessionConflict when the backend reported a
// concurrent login elsewhere.
type SessionExpiredFunc func(err error)

// Client is the shared gateway every feature client dispatches through.
// It injects the stored session ID immediately before each send and, on
// a 401, performs exactly one refresh round trip before retrying the
// original request once.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          session.Store
	refreshGroup   singleflight.Group
	sessionExpired SessionExpiredFunc
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (primarily for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSessionExpiredFunc sets the forced-logout hook.
func WithSessionExpiredFunc(fn SessionExpiredFunc) Option {
	return func(c *Client) {
		c.sessionExpired = fn
	}
}

// New initializes a gateway Client against the configured backend.
func New(cfg config.GatewayConfig, store session.Store, options ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("[gateway.New] config is required")
	}
	if store == nil {
		return nil, errors.New("[gateway.New] session store is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(cfg.GetBaseURL(), "/"),
		httpClient: &http.Client{Timeout: cfg.GetRequestTimeout()},
		store:      store,
		sessionExpired: func(err error) {
			log.Warn().Err(err).Msg("session expired, local credentials cleared")
		},
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Do sends an authenticated request and resolves the 401→refresh→retry
// protocol internally. Every other status passes through unchanged in
// the returned response; the caller owns the body.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	return c.dispatch(ctx, method, path, body, contentType, false)
}

// DoPlain sends without credential injection and without session
// recovery. The login endpoint uses it: a 401 there means bad
// credentials, not an expired session.
func (c *Client) DoPlain(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	return c.send(ctx, method, path, body, contentType, false)
}

// dispatch threads the retry marker as an explicit parameter, so a
// request is retried at most once no matter how the retry itself fails.
func (c *Client) dispatch(ctx context.Context, method, path string, body []byte, contentType string, retried bool) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, contentType, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || retried {
		return resp, nil
	}

	drain(resp)
	if err := c.refreshSession(ctx); err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear session store")
		}
		c.sessionExpired(err)
		return nil, errors.Wrap(err, "[Gateway.dispatch] session refresh")
	}
	return c.dispatch(ctx, method, path, body, contentType, true)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string, withSession bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway.send] build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(requestIDHeader, uuid.New().String())
	if withSession {
		// Credential is read at send time, not call-construction time:
		// a retry after refresh picks up the rotated session ID here.
		if cred, ok := c.store.Credential(); ok {
			req.Header.Set(SessionIDHeader, cred.SessionID)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
