package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/pkg/apperrors"
	"store_rating_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-ID"

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log := logger.FromContext(c.Request.Context()).WithFields(map[string]interface{}{
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"duration_ms": duration.Milliseconds(),
			"size_bytes":  c.Writer.Size(),
		})
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error")
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error")
		} else {
			log.Info("HTTP Request")
		}
	}
}

// MetricsMiddleware - счетчики и гистограмма по шаблону маршрута
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		done := metrics.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}

// DBMiddleware кладет в gin.Context *gorm.DB, привязанный к контексту
// запроса: отмена запроса прерывает его SQL.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbKey := string(contextkeys.DBContextKey)
		tx, ok := c.Request.Context().Value(contextkeys.DBContextKey).(*gorm.DB)
		if !ok || tx == nil {
			tx = db
		}

		c.Set(dbKey, tx.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RecoveryMiddleware - паника превращается в стандартный ответ 500
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.CtxError(c.Request.Context(), "Panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
				)
				apperrors.HandleError(c, apperrors.InternalError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}

// NotFoundHandler - ответ для неизвестных маршрутов
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrRouteNotFound)
	}
}
