package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/error/response"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	// 填充令牌
	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	// 尝试获取令牌
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// limiterEntry 记录桶和最近使用时间，供闲置清理
type limiterEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// 按键（IP或IP:路径）共享一张限流表
var (
	limiters   = make(map[string]*limiterEntry)
	limitersMu sync.Mutex
)

const limiterIdleTTL = time.Hour

func getLimiter(key string, rate float64, burst int) *TokenBucket {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	entry, exists := limiters[key]
	if !exists {
		entry = &limiterEntry{bucket: NewTokenBucket(rate, burst)}
		limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.bucket
}

func rateLimit(keyFunc func(*gin.Context) string, rate float64, burst int) gin.HandlerFunc {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 5
	}

	return func(c *gin.Context) {
		limiter := getLimiter(keyFunc(c), rate, burst)
		if !limiter.Allow() {
			response.FailWithMessage(c, code.ErrTooManyRequests, "请求频率过高，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IPRateLimiter 按客户端IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return rateLimit(func(c *gin.Context) string {
		return c.ClientIP()
	}, rate, burst)
}

// CombinedRateLimiter 按IP和路径组合限流，用于登录这类需要单独收紧的端点
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return rateLimit(func(c *gin.Context) string {
		return c.ClientIP() + ":" + c.Request.URL.Path
	}, rate, burst)
}

// 定期清理闲置的限流器
func init() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			evictIdleLimiters(time.Now())
		}
	}()
}

// evictIdleLimiters 移除超过闲置TTL未被访问的限流器
func evictIdleLimiters(now time.Time) {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	for key, entry := range limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(limiters, key)
		}
	}
}
