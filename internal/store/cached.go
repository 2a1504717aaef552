package store

import (
	"context"
	"time"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/pkg/logger"
	"github.com/minhvo/earnscope/pkg/redis"
)

// CachedSource memoizes a DataSource behind Redis with a bounded TTL.
// Fetches are idempotent per argument set, so a snapshot that is a few
// minutes stale is acceptable; the core never assumes two loads within
// one request observe the same snapshot. Cache failures degrade to a
// direct fetch.
type CachedSource struct {
	inner  contracts.DataSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps a DataSource with TTL caching.
func NewCachedSource(inner contracts.DataSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// SectorMap returns the cached universe, loading it on a miss.
func (s *CachedSource) SectorMap(ctx context.Context) ([]contracts.SectorAssignment, error) {
	key := redis.SectorMapKey()

	var cached []contracts.SectorAssignment
	if found := s.lookup(ctx, key, &cached); found {
		return cached, nil
	}

	assignments, err := s.inner.SectorMap(ctx)
	if err != nil {
		return nil, err
	}
	s.storeResult(ctx, key, assignments)
	return assignments, nil
}

// AvailablePeriods returns the cached period listing, loading on a miss.
func (s *CachedSource) AvailablePeriods(ctx context.Context, frequency period.Frequency) ([]string, error) {
	key := redis.PeriodsKey(string(frequency))

	var cached []string
	if found := s.lookup(ctx, key, &cached); found {
		return cached, nil
	}

	periods, err := s.inner.AvailablePeriods(ctx, frequency)
	if err != nil {
		return nil, err
	}
	s.storeResult(ctx, key, periods)
	return periods, nil
}

// Financials returns the cached snapshot for the requested period set,
// loading on a miss. The cache key is order-independent over periods.
func (s *CachedSource) Financials(ctx context.Context, frequency period.Frequency, periods []string) ([]contracts.FactRow, error) {
	if len(periods) == 0 {
		return []contracts.FactRow{}, nil
	}
	key := redis.FinancialsKey(string(frequency), periods)

	var cached []contracts.FactRow
	if found := s.lookup(ctx, key, &cached); found {
		return cached, nil
	}

	facts, err := s.inner.Financials(ctx, frequency, periods)
	if err != nil {
		return nil, err
	}
	s.storeResult(ctx, key, facts)
	return facts, nil
}

func (s *CachedSource) lookup(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache lookup failed")
		return false
	}
	return found
}

func (s *CachedSource) storeResult(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache store failed")
	}
}
