package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hapsoo-labs/brewgate/gateway"
	apperrors "github.com/hapsoo-labs/brewgate/internal/errors"
	"github.com/hapsoo-labs/brewgate/session/storefakes"
	"github.com/stretchr/testify/require"
)

const (
	firstSessionID    = "S1"
	firstRefreshToken = "R1"
	nextSessionID     = "S2"
	nextRefreshToken  = "R2"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBaseURL() string               { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration { return 2 * time.Second }

func TestSessionHeaderInjection(t *testing.T) {
	var gotSession string
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = r.Header.Get("X-Session-Id")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := storefakes.NewFakeStore()
	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	// No credential: no session header.
	resp, err := client.Do(context.Background(), http.MethodGet, "/api/anything", nil, "")
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, gotSession)
	require.NotEmpty(t, gotRequestID)

	// Credential present: header equals the stored session ID.
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))
	resp, err = client.Do(context.Background(), http.MethodGet, "/api/anything", nil, "")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, firstSessionID, gotSession)
}

func TestRefreshAndRetryOnce(t *testing.T) {
	var apiHits, refreshHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		require.Equal(t, firstRefreshToken, r.Header.Get("X-Refresh-Token"))
		require.Equal(t, firstSessionID, r.Header.Get("X-Session-Id"))
		w.Header().Set("X-Session-Id", nextSessionID)
		w.Header().Set("X-Refresh-Token", nextRefreshToken)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiHits, 1)
		if r.Header.Get("X-Session-Id") != nextSessionID {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, apiHits)
	require.EqualValues(t, 1, refreshHits)

	// The rotated pair replaced the old one.
	cred, ok := store.Credential()
	require.True(t, ok)
	require.Equal(t, nextSessionID, cred.SessionID)
	require.Equal(t, nextRefreshToken, cred.RefreshToken)
}

func TestNoSecondRetryAfterRepeated401(t *testing.T) {
	var apiHits, refreshHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		w.Header().Set("X-Session-Id", nextSessionID)
		w.Header().Set("X-Refresh-Token", nextRefreshToken)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiHits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	// The second 401 propagates; no third attempt.
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, 2, apiHits)
	require.EqualValues(t, 1, refreshHits)
}

func TestRefreshRequiresFullCredential(t *testing.T) {
	var refreshHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()

	var expired bool
	client, err := gateway.New(testConfig{baseURL: server.URL}, store,
		gateway.WithSessionExpiredFunc(func(error) { expired = true }))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	// No credential pair, no network call.
	require.EqualValues(t, 0, refreshHits)
	require.True(t, expired)
}

func TestRefreshFailureClearsStore(t *testing.T) {
	tests := []struct {
		name        string
		refreshCode int
		wantErr     error
	}{
		{name: "conflicting session", refreshCode: http.StatusConflict, wantErr: apperrors.ErrSessionConflict},
		{name: "refresh rejected", refreshCode: http.StatusForbidden, wantErr: apperrors.ErrSessionExpired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.refreshCode)
			})
			mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			store := storefakes.NewFakeStore()
			require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

			var expiredWith error
			client, err := gateway.New(testConfig{baseURL: server.URL}, store,
				gateway.WithSessionExpiredFunc(func(err error) { expiredWith = err }))
			require.NoError(t, err)

			_, err = client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, expiredWith, tc.wantErr)

			_, ok := store.Credential()
			require.False(t, ok)
			require.False(t, store.IsAuthenticated())
		})
	}
}

func TestPartialRefreshHeadersKeepOldCounterpart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		// Session ID rotates, refresh token header omitted.
		w.Header().Set("X-Session-Id", nextSessionID)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Id") != nextSessionID {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cred, ok := store.Credential()
	require.True(t, ok)
	require.Equal(t, nextSessionID, cred.SessionID)
	require.Equal(t, firstRefreshToken, cred.RefreshToken)
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	var refreshHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshHits, 1)
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("X-Session-Id", nextSessionID)
		w.Header().Set("X-Refresh-Token", nextRefreshToken)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Id") != nextSessionID {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	const parallel = 5
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	codes := make([]int, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.Do(context.Background(), http.MethodGet, "/api/seller-priv/products", nil, "")
			if err != nil {
				errs[i] = err
				return
			}
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallel; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, http.StatusOK, codes[i])
	}
	require.EqualValues(t, 1, refreshHits)
}

func TestCallerCancelDoesNotAbortSharedRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		// The initiating caller gives up mid-refresh.
		cancel()
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("X-Session-Id", nextSessionID)
		w.Header().Set("X-Refresh-Token", nextRefreshToken)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/seller-priv/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetCredential(firstSessionID, firstRefreshToken))

	var expired bool
	client, err := gateway.New(testConfig{baseURL: server.URL}, store,
		gateway.WithSessionExpiredFunc(func(error) { expired = true }))
	require.NoError(t, err)

	// The retry itself runs on the cancelled context and fails, but the
	// refresh completes: the rotated pair is stored, nobody is logged out.
	_, err = client.Do(ctx, http.MethodGet, "/api/seller-priv/products", nil, "")
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrSessionExpired)

	cred, ok := store.Credential()
	require.True(t, ok)
	require.Equal(t, nextSessionID, cred.SessionID)
	require.Equal(t, nextRefreshToken, cred.RefreshToken)
	require.False(t, expired)
}

func TestTransportErrorsAreClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	store := storefakes.NewFakeStore()
	client, err := gateway.New(testConfig{baseURL: server.URL}, store)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/api/anything", nil, "")
	require.ErrorIs(t, err, apperrors.ErrNetwork)
}
