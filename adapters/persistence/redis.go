package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}

type redisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) service.StatsCache {
	return &redisStatsCache{rdb: rdb, ttl: ttl}
}

func (c *redisStatsCache) GetCount(ctx context.Context, key string) (int, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next load.
		return 0, false, nil
	}
	return v, true, nil
}

func (c *redisStatsCache) SetCount(ctx context.Context, key string, value int) error {
	if err := c.rdb.Set(ctx, key, strconv.Itoa(value), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
