package service

import (
	"context"
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

func TestMetricsServiceCountsPlacements(t *testing.T) {
	m := NewMetricsService()
	m.RecordPlacements("auto", 5, 1)
	m.RecordPlacements("pattern", 2, 0)
	m.RecordFallbacks(map[string]int{"field": 2, "date": 1})

	assert.Equal(t, float64(5), testutil.ToFloat64(m.gamesPlaced.WithLabelValues("auto")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.gamesFailed.WithLabelValues("auto")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.fallbacks.WithLabelValues("field")))
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/jobs/:id/standings", http.StatusOK, 20*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}

func TestNilMetricsServiceIsInert(t *testing.T) {
	var m *MetricsService
	m.RecordPlacements("auto", 1, 1)
	m.ObserveAutoBuild(time.Second)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type failingCacheRepo struct{ err error }

func (f failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error { return f.err }
func (f failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return f.err
}
func (f failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error { return f.err }

func TestCacheServiceMissesAndFailures(t *testing.T) {
	metrics := NewMetricsService()
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, metrics, 0, nil, true)

	var out map[string]int
	hit, err := cache.Get(context.Background(), "standings:job:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("miss")))

	require.NoError(t, cache.Set(context.Background(), "standings:job:1", map[string]int{"a": 1}, 0))
	hit, err = cache.Get(context.Background(), "standings:job:1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, out["a"])

	broken := NewCacheService(failingCacheRepo{err: errors.New("redis down")}, nil, 0, nil, true)
	hit, err = broken.Get(context.Background(), "k", &out)
	assert.False(t, hit)
	assert.Error(t, err)

	disabled := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
	hit, err = disabled.Get(context.Background(), "standings:job:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
