package infra

import (
	"context"
	"fmt"

	"testcase-generator/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(cfg config.App) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level error: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Environment == "development" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	lg, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}
	return lg, nil
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID は WithRequestID で入れた ID を返す。リクエスト外では ""
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}
