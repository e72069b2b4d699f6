package whois

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL:   baseURL,
		APIToken:  "token",
		AccountID: "acct-1",
	}, zap.NewNop())
}

func TestRegisteredFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/acct-1/intel/whois", r.URL.Path)
		require.Equal(t, "wllt.com", r.URL.Query().Get("domain"))
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"result":{"found":true}}`))
	}))
	defer srv.Close()

	registered, err := newTestClient(srv.URL).Registered(context.Background(), "wllt.com")
	require.NoError(t, err)
	require.True(t, registered)
}

func TestRegisteredNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"result":{"found":false}}`))
	}))
	defer srv.Close()

	registered, err := newTestClient(srv.URL).Registered(context.Background(), "wllt.com")
	require.NoError(t, err)
	require.False(t, registered)
}

func TestRegisteredMissingFoundDefaultsToRegistered(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"result":{}}`))
	}))
	defer srv.Close()

	registered, err := newTestClient(srv.URL).Registered(context.Background(), "wllt.com")
	require.NoError(t, err)
	require.True(t, registered)
}

func TestRegisteredProviderError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"errors":[{"code":10000,"message":"auth required"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Registered(context.Background(), "wllt.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth required")
}

func TestRegisteredHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Registered(context.Background(), "wllt.com")
	require.Error(t, err)
}
