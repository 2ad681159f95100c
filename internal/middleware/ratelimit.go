package middleware

import (
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/ratelimit"
	"store_rating_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimit ограничивает попытки по IP клиента.
// Если лимитер недоступен (например, упал Redis), запрос пропускается.
func RateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			metrics.RecordRateLimited()
			logger.CtxWarn(c.Request.Context(), "Too many authentication attempts", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrTooManyAttempts)
			return
		}
		c.Next()
	}
}
