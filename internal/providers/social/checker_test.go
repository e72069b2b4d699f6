package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckClassifiesStatuses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/free/wllt":
			w.WriteHeader(http.StatusNotFound)
		case "/taken/wllt":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	platforms := []Platform{
		{Name: "free", URLFormat: srv.URL + "/free/%s"},
		{Name: "taken", URLFormat: srv.URL + "/taken/%s"},
		{Name: "flaky", URLFormat: srv.URL + "/err/%s"},
	}
	checker := New(platforms, time.Second, zap.NewNop())

	results := checker.Check(context.Background(), "wllt")
	require.Len(t, results, 3)
	require.True(t, results[0].Available)
	require.False(t, results[1].Available)
	require.False(t, results[2].Available)
	require.False(t, AllAvailable(results))
}

func TestAllAvailable(t *testing.T) {
	t.Parallel()

	require.False(t, AllAvailable(nil))
	require.True(t, AllAvailable([]Result{{Available: true}, {Available: true}}))
	require.False(t, AllAvailable([]Result{{Available: true}, {Available: false}}))
}

func TestCheckUnreachableHostReadsTaken(t *testing.T) {
	t.Parallel()

	checker := New([]Platform{
		{Name: "down", URLFormat: "http://127.0.0.1:1/%s"},
	}, 200*time.Millisecond, zap.NewNop())

	results := checker.Check(context.Background(), "wllt")
	require.Len(t, results, 1)
	require.False(t, results[0].Available)
}
