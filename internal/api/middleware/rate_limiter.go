package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// LimiterConfig はレート制限の設定
type LimiterConfig struct {
	RPS     float64       // 1秒あたりのトークン補充数
	Burst   int           // バケット容量
	IdleTTL time.Duration // この期間使われなかったキーは破棄する
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter はキー（クライアントIP）ごとのトークンバケットを管理する
type RateLimiter struct {
	conf      LimiterConfig
	mu        sync.Mutex
	buckets   map[string]*keyLimiter
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(conf LimiterConfig) *RateLimiter {
	if conf.IdleTTL <= 0 {
		conf.IdleTTL = defaultLimiterIdleTTL
	}
	return &RateLimiter{
		conf:      conf,
		buckets:   make(map[string]*keyLimiter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.conf.IdleTTL/2 {
		rl.sweep(now)
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
	return lim
}

// sweep は mu を保持した状態で呼ぶこと
func (rl *RateLimiter) sweep(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.conf.IdleTTL {
			delete(rl.buckets, k)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Middleware はクライアントIPごとにレート制限をかける
// 超過時は 429 と Retry-After を返す
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lim := rl.getLimiter(c.RealIP())
			now := rl.now()

			r := lim.ReserveN(now, 1)
			if !r.OK() {
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再試行してください")
			}
			if delay := r.DelayFrom(now); delay > 0 {
				r.CancelAt(now)
				seconds := int(delay.Seconds())
				if delay > time.Duration(seconds)*time.Second {
					seconds++
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return echo.NewHTTPError(http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再試行してください")
			}

			return next(c)
		}
	}
}
