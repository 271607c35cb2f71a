package services

import (
	"context"
	"testing"
	"time"

	"astro-connector/internal/domain/entities"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(astro *mockAstro) *CacheService {
	return NewCacheService(logger.NewNop(), repository.NewMemoryStore[entities.CacheEntry](), astro)
}

var testBirth = entities.BirthDetails{
	Date:  "1995-03-12",
	Time:  "04:30",
	Place: "Mumbai",
	Coordinates: entities.Coordinates{
		Latitude: 19.0760, Longitude: 72.8777, Timezone: "Asia/Kolkata",
	},
}

func TestCacheIdempotentWithinExpiry(t *testing.T) {
	ctx := context.Background()
	astro := &mockAstro{}
	cache := newTestCache(astro)

	keys := []entities.DataKey{entities.DataPlanets, entities.DataNakshatra}

	first, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)
	second, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)

	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.Equal(t, 1, astro.calls, "second lookup must be served from cache")
}

func TestCacheKeyOrderInsensitive(t *testing.T) {
	ctx := context.Background()
	astro := &mockAstro{}
	cache := newTestCache(astro)

	_, err := cache.GetOrRefresh(ctx, "user-1", []entities.DataKey{entities.DataPlanets, entities.DataNakshatra}, testBirth)
	require.NoError(t, err)
	_, err = cache.GetOrRefresh(ctx, "user-1", []entities.DataKey{entities.DataNakshatra, entities.DataPlanets}, testBirth)
	require.NoError(t, err)

	assert.Equal(t, 1, astro.calls)
}

func TestCacheRefreshesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	astro := &mockAstro{}
	cache := newTestCache(astro)

	now := time.Now()
	cache.now = func() time.Time { return now }

	keys := []entities.DataKey{entities.DataPlanets}
	_, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)

	cache.now = func() time.Time { return now.Add(CacheExpiry + time.Minute) }
	_, err = cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)

	assert.Equal(t, 2, astro.calls)
}

func TestCacheServesStaleOnRefreshFailure(t *testing.T) {
	ctx := context.Background()
	astro := &mockAstro{}
	cache := newTestCache(astro)

	now := time.Now()
	cache.now = func() time.Time { return now }

	keys := []entities.DataKey{entities.DataPlanets}
	fresh, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)

	astro.fetchFn = func(ctx context.Context, birth entities.BirthDetails, dataKeys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error) {
		return nil, errUpstreamDown
	}
	cache.now = func() time.Time { return now.Add(CacheExpiry + time.Minute) }

	stale, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)
	assert.Equal(t, fresh.Payload, stale.Payload)
	assert.Equal(t, fresh.FetchedAt, stale.FetchedAt)
	assert.False(t, stale.Degraded)
}

func TestCacheDegradedEntryOnFirstFetchFailure(t *testing.T) {
	ctx := context.Background()
	astro := &mockAstro{
		fetchFn: func(ctx context.Context, birth entities.BirthDetails, keys []entities.DataKey) (map[entities.DataKey]entities.DataResult, error) {
			return nil, errUpstreamDown
		},
	}
	cache := newTestCache(astro)

	keys := []entities.DataKey{entities.DataPlanets}
	entry, err := cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)
	assert.True(t, entry.Degraded)
	assert.Empty(t, entry.Payload)

	// The degraded entry is stored, so the next lookup inside the window
	// does not hammer the provider again.
	_, err = cache.GetOrRefresh(ctx, "user-1", keys, testBirth)
	require.NoError(t, err)
	assert.Equal(t, 1, astro.calls)
}
