package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/pipeline"
)

type stubSource struct {
	runID  uuid.UUID
	depths map[string]int
	stages map[string]pipeline.StageSnapshot
}

func (s *stubSource) RunID() uuid.UUID            { return s.runID }
func (s *stubSource) QueueDepths() map[string]int { return s.depths }
func (s *stubSource) Snapshot() map[string]pipeline.StageSnapshot {
	return s.stages
}

type stubCounter struct {
	counts map[string]int
}

func (s *stubCounter) CacheCounts(context.Context) (map[string]int, error) {
	return s.counts, nil
}

func newTestServer() (*Server, *stubSource) {
	source := &stubSource{
		runID:  uuid.New(),
		depths: map[string]int{"translation": 2, "rating": 0},
		stages: map[string]pipeline.StageSnapshot{
			"translation": {Processed: 5, CacheHits: 3},
		},
	}
	counter := &stubCounter{counts: map[string]int{"whois": 7}}
	return NewServer(source, counter, zap.NewNop()), source
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	srv, source := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, source.runID.String(), got.RunID)
	require.Equal(t, 2, got.Queues["translation"])
	require.Equal(t, int64(5), got.Stages["translation"].Processed)
	require.Equal(t, int64(3), got.Stages["translation"].CacheHits)
	require.Equal(t, 7, got.Caches["whois"])
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
