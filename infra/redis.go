package infra

import (
	"context"
	"fmt"
	"time"

	"testcase-generator/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient は REDIS_ADDR が空なら nil, nil を返す
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis error: %w", err)
	}
	return rdb, nil
}
