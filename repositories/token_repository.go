package repositories

import (
	"context"
	"fmt"
	"time"

	"testcase-generator/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ITokenRepository はログアウト済みトークンのブラックリスト
type ITokenRepository interface {
	AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	CleanExpiredTokens(ctx context.Context) error
}

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) ITokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) AddBlacklistedToken(ctx context.Context, token string, expiresAt int64) error {
	blacklistedToken := models.BlacklistedToken{
		Token:     token,
		ExpiresAt: expiresAt,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&blacklistedToken)
	if result.Error != nil {
		return fmt.Errorf("blacklist token: %w", result.Error)
	}
	return nil
}

func (r *TokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.BlacklistedToken{}).Where("token = ?", token).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("count blacklisted token: %w", result.Error)
	}
	return count > 0, nil
}

func (r *TokenRepository) CleanExpiredTokens(ctx context.Context) error {
	now := time.Now().Unix()
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return fmt.Errorf("clean expired tokens: %w", result.Error)
	}
	return nil
}
