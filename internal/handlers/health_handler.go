package handlers

import (
	"context"
	"net/http"
	"time"

	"store_rating_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Health всегда отвечает 200; состояние БД в поле database
func (h *HealthHandler) Health(c *gin.Context) {
	database := "up"
	if err := h.ping(c.Request.Context()); err != nil {
		logger.CtxWithError(c.Request.Context(), "Database ping failed", err)
		database = "down"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
