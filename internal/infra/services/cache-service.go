package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"astro-connector/internal/domain/entities"
	Irepository "astro-connector/internal/domain/interfaces/repository"
	"astro-connector/internal/infra/logger"
	"astro-connector/internal/infra/provider"
)

// CacheExpiry is the freshness window for provider responses.
const CacheExpiry = time.Hour

// CacheService keeps time-bounded astrology data per (user, data keys) and
// favors availability over freshness: a failed refresh keeps serving the
// previous entry, and a failed first fetch yields a stored degraded entry
// so the pipeline is not re-attempted within the same turn.
type CacheService struct {
	Logger *logger.Logger
	store  Irepository.Store[entities.CacheEntry]
	astro  provider.IAstrologyProvider
	expiry time.Duration
	now    func() time.Time
}

func NewCacheService(log *logger.Logger, store Irepository.Store[entities.CacheEntry], astro provider.IAstrologyProvider) *CacheService {
	return &CacheService{
		Logger: log,
		store:  store,
		astro:  astro,
		expiry: CacheExpiry,
		now:    time.Now,
	}
}

// GetOrRefresh returns the cached entry for (userID, keys), refreshing it
// through the astrology provider when missing or stale.
func (cs *CacheService) GetOrRefresh(ctx context.Context, userID string, keys []entities.DataKey, birth entities.BirthDetails) (entities.CacheEntry, error) {
	key := entities.CacheKey(userID, keys)

	prior, findErr := cs.store.Find(ctx, key)
	hasPrior := findErr == nil
	if findErr != nil && !errors.Is(findErr, Irepository.ErrNotFound) {
		return entities.CacheEntry{}, findErr
	}

	if hasPrior && cs.now().Sub(prior.FetchedAt) <= cs.expiry {
		cacheLookups.WithLabelValues("hit").Inc()
		return prior, nil
	}

	payload, fetchErr := cs.astro.Fetch(ctx, birth, keys)
	if fetchErr != nil {
		if hasPrior {
			// Stale but usable beats nothing.
			cs.Logger.Warn(fmt.Sprintf("Astrology refresh failed for %s, serving stale entry: %v", key, fetchErr))
			cacheLookups.WithLabelValues("stale").Inc()
			return prior, nil
		}

		cs.Logger.Error(fmt.Sprintf("Astrology fetch failed for %s with no prior entry: %v", key, fetchErr))
		degraded := entities.CacheEntry{
			Key:       key,
			Payload:   map[entities.DataKey]entities.DataResult{},
			FetchedAt: cs.now(),
			Degraded:  true,
		}
		if err := cs.store.Save(ctx, key, degraded); err != nil {
			return entities.CacheEntry{}, err
		}
		cacheLookups.WithLabelValues("degraded").Inc()
		return degraded, nil
	}

	fresh := entities.CacheEntry{
		Key:       key,
		Payload:   payload,
		FetchedAt: cs.now(),
		Degraded:  false,
	}
	if err := cs.store.Save(ctx, key, fresh); err != nil {
		return entities.CacheEntry{}, err
	}
	cacheLookups.WithLabelValues("refresh").Inc()
	return fresh, nil
}
