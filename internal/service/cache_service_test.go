package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{ err error }

func (f failingCache) Get(ctx context.Context, key string, dest interface{}) error { return f.err }

func (f failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return f.err
}

func (f failingCache) Delete(ctx context.Context, keys ...string) error { return f.err }

func TestCacheServiceRoundTrip(t *testing.T) {
	metrics := NewMetricsService()
	repo := newMemCache()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "k", []string{"a", "b"}, 0))
	hit, err = svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))

	svc.InvalidateEnrollments(context.Background(), "u", 4)
	assert.Equal(t, []string{"enrollments:u:4"}, repo.deleted)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	assert.Empty(t, repo.items)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	hit, err := nilSvc.Get(context.Background(), "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	nilSvc.InvalidateEnrollments(context.Background(), "u", 1)
}

func TestCacheServiceReportsBackendErrors(t *testing.T) {
	boom := errors.New("redis down")
	svc := NewCacheService(failingCache{err: boom}, nil, 0, nil, true)

	hit, err := svc.Get(context.Background(), "k", new(int))
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.Set(context.Background(), "k", 1, 0), boom)
	assert.ErrorIs(t, svc.Invalidate(context.Background(), "k"), boom)
}
