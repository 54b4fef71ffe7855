package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/hapsoo-labs/brewgate/gateway"
	apperrors "github.com/hapsoo-labs/brewgate/internal/errors"
	"github.com/hapsoo-labs/brewgate/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	loginPath  = "/api/auth/login"
	logoutPath = "/api/auth/logout"
)

// loginResponse is the login endpoint's body; the tokens themselves
// arrive in response headers.
type loginResponse struct {
	Status   int    `json:"status"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// Service produces and tears down session credentials. It is the only
// writer of the profile and, besides the gateway's refresh, the only
// writer of the credential.
type Service struct {
	gateway *gateway.Client
	store   session.Store
}

// NewService initializes an auth Service with required dependencies.
func NewService(gw *gateway.Client, store session.Store) (*Service, error) {
	if gw == nil {
		return nil, errors.New("[NewService] gateway is required")
	}
	if store == nil {
		return nil, errors.New("[NewService] session store is required")
	}
	return &Service{gateway: gw, store: store}, nil
}

// Login exchanges email and password for a session credential. Both the
// x-session-id and x-refresh-token response headers must be present; a
// 200 without them is a malformed response and leaves the store
// untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Profile, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	resp, err := s.gateway.DoPlain(ctx, http.MethodPost, loginPath, []byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, errors.Wrap(err, "[Auth.Login] send")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, loginStatusError(resp.StatusCode)
	}

	sessionID := resp.Header.Get(gateway.SessionIDHeader)
	refreshToken := resp.Header.Get(gateway.RefreshTokenHeader)
	if sessionID == "" || refreshToken == "" {
		return nil, errors.Wrap(apperrors.ErrMalformedResponse, "[Auth.Login] session headers missing")
	}

	// The body only carries display data; a decode failure costs the
	// greeting, not the login.
	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Msg("could not decode login response body")
	}

	if err := s.store.SetCredential(sessionID, refreshToken); err != nil {
		return nil, errors.Wrap(err, "[Auth.Login] store credential")
	}
	profile := session.Profile{Nickname: body.Nickname, Email: email, Role: body.Role}
	if err := s.store.SetProfile(profile); err != nil {
		return nil, errors.Wrap(err, "[Auth.Login] store profile")
	}

	return &profile, nil
}

// Logout notifies the backend best-effort and clears the local session
// regardless of the outcome of that call.
func (s *Service) Logout(ctx context.Context) error {
	if resp, err := s.gateway.Do(ctx, http.MethodPost, logoutPath, nil, ""); err != nil {
		log.Warn().Err(err).Msg("logout request failed")
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	return s.store.Clear()
}

func loginStatusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return apperrors.ErrInvalidCredentials
	case http.StatusNotFound:
		return apperrors.ErrAccountNotFound
	case http.StatusInternalServerError:
		return apperrors.ErrServerFault
	default:
		return &gateway.StatusError{Code: code}
	}
}
