package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggerKey is where the request-scoped logger lives in the gin context.
const LoggerKey = "logger"

// RequestLogger attaches a logger carrying the request ID and logs each
// completed request.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)

		logger := base.With(zap.String("requestId", requestID))
		c.Set(LoggerKey, logger)
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ClientIP(c)),
		)
	}
}

// GetLogger retrieves the request logger, or the global one outside a request.
func GetLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
