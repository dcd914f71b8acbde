package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"testcase-generator/config"
	"testcase-generator/constants"
	"testcase-generator/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 満タンのまま idleTTL 以上使われていないバケットは掃除する
const idleTTL = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter は認証済みユーザーごとにトークンバケットを持つ。
// 捨てるのは満タンに戻ったバケットだけなので、掃除しても制限は緩まない
type UserRateLimiter struct {
	mu        sync.Mutex
	limiters  map[uint]*userLimiter
	lastSweep time.Time
	limit     rate.Limit
	burst     int
}

func NewUserRateLimiter(cfg config.RateLimit) *UserRateLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &UserRateLimiter{
		limiters:  make(map[uint]*userLimiter),
		lastSweep: time.Now(),
		limit:     rate.Limit(cfg.PerMinute / 60),
		burst:     burst,
	}
}

func (l *UserRateLimiter) get(userID uint, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= idleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[userID]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep は l.mu を持った状態で呼ぶ
func (l *UserRateLimiter) sweep(now time.Time) {
	for userID, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= idleTTL && entry.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, userID)
		}
	}
	l.lastSweep = now
}

func (l *UserRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware は AuthMiddleware の後に使う（ctx に "user" が必要）
func (l *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if l.limit <= 0 {
			ctx.Next()
			return
		}

		user, ok := ctx.MustGet(constants.ContextUserKey).(*models.User)
		if !ok {
			AbortUnauthorized(ctx)
			return
		}

		now := time.Now()
		reservation := l.get(user.ID, now).ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			ctx.Header("Retry-After", strconv.Itoa(retryAfter(delay)))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": constants.ErrTooManyGenerations})
			return
		}

		ctx.Next()
	}
}

// 秒単位で切り上げ
func retryAfter(delay time.Duration) int {
	return int(math.Ceil(delay.Seconds()))
}
