package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("venue-service")

	m.IncStoreRetry("FetchActiveIntervals")
	m.IncStoreRetry("FetchActiveIntervals")
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/spaces/{spaceId}/available-slots", http.StatusOK, 10*time.Millisecond)
	m.ObserveDBQuery("query", time.Millisecond, errors.New("boom"))
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeRetriesTotal.WithLabelValues("FetchActiveIntervals")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/spaces/{spaceId}/available-slots", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbOpenConnections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbIdle))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncStoreRetry("x")
		m.ObserveAvailableSlots(3)
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("venue-service")
	m.ObserveAvailableSlots(5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "venue_available_slots_returned"))
}
