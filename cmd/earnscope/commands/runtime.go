package commands

import (
	"context"
	"fmt"

	"github.com/minhvo/earnscope/internal/contracts"
	"github.com/minhvo/earnscope/internal/period"
	"github.com/minhvo/earnscope/internal/store"
	"github.com/minhvo/earnscope/pkg/config"
	"github.com/minhvo/earnscope/pkg/database"
	"github.com/minhvo/earnscope/pkg/logger"
	"github.com/minhvo/earnscope/pkg/redis"
)

// runtime bundles the shared service wiring every command needs: config,
// logger, database pool, and the cached data source on top of them.
type runtime struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB
	redis  *redis.Client
	source contracts.DataSource
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "earnscope")
	repo := store.NewRepository(db.Pool)
	source := store.NewCachedSource(repo, cache, cfg.CacheTTL, log)

	return &runtime{
		cfg:    cfg,
		logger: log,
		db:     db,
		redis:  redisClient,
		source: source,
	}, nil
}

func (rt *runtime) Close() {
	if err := rt.redis.Close(); err != nil {
		rt.logger.WithError(err).Warn("Redis close failed")
	}
	rt.db.Close()
}

// resolvePeriod falls back to the latest available period when the flag
// is left empty.
func (rt *runtime) resolvePeriod(ctx context.Context, frequency period.Frequency, requested string) (string, error) {
	if requested != "" {
		if _, err := period.Parse(requested, frequency); err != nil {
			return "", err
		}
		return requested, nil
	}

	periods, err := rt.source.AvailablePeriods(ctx, frequency)
	if err != nil {
		return "", fmt.Errorf("list periods: %w", err)
	}
	if len(periods) == 0 {
		return "", fmt.Errorf("no %s periods available", frequency)
	}
	return periods[0], nil
}
