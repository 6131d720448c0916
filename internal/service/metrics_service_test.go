package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/navigation", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/navigation", http.StatusOK, 40*time.Millisecond)
	m.ObserveDBQuery("navigation_records", 10*time.Millisecond)
	m.ObserveNavigationBuild(time.Millisecond)
	m.ObserveBreadcrumbDepth(3)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveCacheWrite(time.Millisecond)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 30, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.InDelta(t, 10, snapshot.AverageDBQueryDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.NavigationBuilds)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)
	assert.False(t, snapshot.GeneratedAt.IsZero())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "navigation_build_duration_seconds"))
	assert.True(t, strings.Contains(body, `classnav_db_query_duration_seconds_count{query="navigation_records"} 1`))
	assert.True(t, strings.Contains(body, `classnav_cache_lookups_total{result="hit"} 1`))
	assert.True(t, strings.Contains(body, `classnav_cache_operation_seconds_count{op="set"} 1`))
	assert.False(t, strings.Contains(body, "goroutines_total"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveCacheWrite(time.Millisecond)
	m.ObserveDBQuery("q", time.Millisecond)
	m.ObserveNavigationBuild(time.Millisecond)
	m.ObserveBreadcrumbDepth(1)

	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
