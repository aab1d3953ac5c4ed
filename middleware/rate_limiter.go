package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"instaquote/utils"
)

// rateLimiterStore holds a token bucket per IP address. Idle buckets expire.
type rateLimiterStore struct {
	limiters  *cache.Cache
	perMinute int
	mu        sync.Mutex
}

func newLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 200
	}
	return &rateLimiterStore{
		limiters:  cache.New(10*time.Minute, 10*time.Minute),
		perMinute: perMinute,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.limiters.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		s.limiters.SetDefault(ip, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)
	s.limiters.SetDefault(ip, limiter)
	return limiter
}

// RateLimitMiddleware limits requests per IP address with a token bucket
// refilled at perMinute and bursting up to the same amount.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newLimiterStore(perMinute)
	return func(c *gin.Context) {
		ip := ClientIP(c)
		if !store.getLimiter(ip).Allow() {
			GetLogger(c).Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.JSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", "")
			c.Abort()
			return
		}
		c.Next()
	}
}
