package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/apperr"
	"github.com/shopmart/shop-backend/internal/metrics"
)

// Requests to the same route with different path parameters must share one
// series: the label is the chi pattern, never the raw URL.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.NewServerMetrics("test")

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Get("/users/{userId}/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users/"+primitive.NewObjectID().Hex()+"/orders", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET /users/{userId}/orders", "200")))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	// A client-supplied id is kept.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-42", seen)
}

func TestRespondServiceError_KindMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.BadRequest("bad"), http.StatusBadRequest, "bad"},
		{apperr.NotFound("missing"), http.StatusNotFound, "missing"},
		{apperr.Unauthorized("who"), http.StatusUnauthorized, "who"},
		{apperr.Forbidden("no"), http.StatusForbidden, "no"},
		{apperr.Internal("boom", assert.AnError), http.StatusInternalServerError, "Internal server error."},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

		assert.Equal(t, tt.status, rec.Code)
		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Status)
		assert.Equal(t, tt.message, env.Message)
	}
}
