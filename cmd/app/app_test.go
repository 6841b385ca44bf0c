package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentalAPI/internal/config"
	"rentalAPI/internal/metrics"
	"rentalAPI/internal/service"
)

func newTestHandler() http.Handler {
	registry := NewRegistry()
	return NewHTTPHandler(&service.Service{}, &config.Config{MaxUploadSize: 1 << 20}, registry, metrics.New(registry))
}

func TestHTTPHandler_Metrics(t *testing.T) {
	h := newTestHandler()

	// one request so the http counters have a sample
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "go_goroutines"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestHTTPHandler_UnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"not found"}`, rr.Body.String())
}

func TestHTTPHandler_Preflight(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/room/publish", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPHandler_ProtectedRouteNeedsToken(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/users/update", strings.NewReader("{}")))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}
