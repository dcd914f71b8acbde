package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:token:"

// RedisTokenRepository はトークンの有効期限と同時に消えるキーとして保存する
type RedisTokenRepository struct {
	rdb *redis.Client
}

func NewRedisTokenRepository(rdb *redis.Client) ITokenRepository {
	return &RedisTokenRepository{rdb: rdb}
}

func (r *RedisTokenRepository) AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error {
	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, blacklistKeyPrefix+token, expiresAt, ttl).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("exists error: %w", err)
	}
	return n > 0, nil
}

// CleanExpiredTokens は何もしない（Redis が期限切れで消す）
func (r *RedisTokenRepository) CleanExpiredTokens(ctx context.Context) error {
	return nil
}
