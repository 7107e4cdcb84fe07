package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/pkg/logger"
)

func serve(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, Report) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthHandler(t *testing.T) {
	var chErr error
	h := NewHealthHandler(map[string]Check{
		"clickhouse": func(context.Context) error { return chErr },
		"redis":      func(context.Context) error { return nil },
	}, 0)
	s := NewServer(logger.Nop(), []Handler{h}, WithMetrics("", nil))

	rec, body := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusOK, body.Status)
	assert.Empty(t, body.Checks)

	rec, body = serve(t, s, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusReady, body.Status)
	require.Len(t, body.Checks, 2)

	chErr = errors.New("connection refused")
	rec, body = serve(t, s, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusNotReady, body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "clickhouse", body.Checks[0].Name)
	assert.False(t, body.Checks[0].OK)
	assert.Equal(t, "connection refused", body.Checks[0].Error)
	assert.True(t, body.Checks[1].OK, "redis still checked after clickhouse failed")
}

func TestServer_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	s := NewServer(nil, nil, WithMetrics("/metrics", reg))
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total 1")
}

func TestRecoverMiddleware(t *testing.T) {
	s := NewServer(logger.Nop(), nil, WithMetrics("", nil))
	s.Echo().GET("/boom", func(echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
