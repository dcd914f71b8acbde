package middlewares

import (
	"strings"
	"time"

	"testcase-generator/infra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// RequestID は X-Request-Id を引き継ぐか新しく振り、リクエストの context に載せてアクセスログを1行出す
func RequestID(lg *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := strings.TrimSpace(ctx.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx.Set("request_id", rid)
		ctx.Request = ctx.Request.WithContext(infra.WithRequestID(ctx.Request.Context(), rid))
		ctx.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		ctx.Next()

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}

		switch status := ctx.Writer.Status(); {
		case status >= 500:
			lg.Error("request", fields...)
		case status >= 400:
			lg.Warn("request", fields...)
		default:
			lg.Info("request", fields...)
		}
	}
}
