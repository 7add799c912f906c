package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthroute/healthroute/internal/api/middleware"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var captured string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, strings.HasPrefix(captured, "req_"))
	assert.Equal(t, captured, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	var captured string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req_incoming")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req_incoming", captured)
	assert.Equal(t, "req_incoming", rec.Header().Get("X-Request-Id"))
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.GetRequestID(req.Context()))
}
