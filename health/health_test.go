package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var status HealthStatus
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	}
	return rec, status
}

func TestHealthHandler_Healthy(t *testing.T) {
	srv := NewServer(nil)
	srv.Register("storage", func(ctx context.Context) error { return nil })

	for _, path := range []string{"/health", "/"} {
		rec, status := get(t, srv.Router(), path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, map[string]string{"storage": "healthy"}, status.Checks)
		assert.NotEmpty(t, status.GoVersion)
	}
}

func TestHealthHandler_FailingCheck(t *testing.T) {
	srv := NewServer(nil)
	srv.Register("storage", func(ctx context.Context) error { return nil })
	srv.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	rec, status := get(t, srv.Router(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "unhealthy: connection refused", status.Checks["redis"])
	assert.Equal(t, "healthy", status.Checks["storage"])
}

func TestRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mkbot_up 1\n"))
	})

	rec, _ := get(t, NewServer(metrics).Router(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mkbot_up 1\n", rec.Body.String())

	rec, _ = get(t, NewServer(nil).Router(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
