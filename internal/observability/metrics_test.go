package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/supplier/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/supplier/sup9", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/supplier/{id}", "404")))
}

func TestObserveAPIRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveAPIRequest("place_order", http.StatusCreated, 20*time.Millisecond)
	m.ObserveAPIRequest("place_order", 0, time.Millisecond)
	m.ObserveAPIRequest("place_order", 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiTotal.WithLabelValues("place_order", "201")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiTotal.WithLabelValues("place_order", "0")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPIRequest("faqs", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `proximart_api_requests_total{code="200",operation="faqs"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveAPIRequest("faqs", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
