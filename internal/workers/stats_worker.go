package workers

import (
	"context"
	"time"

	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/services"

	"gorm.io/gorm"
)

// StatsWorker периодически пересчитывает число пользователей, магазинов
// и оценок и публикует их как gauge в /metrics.
type StatsWorker struct {
	db       *gorm.DB
	admin    services.AdminService
	interval time.Duration
}

func NewStatsWorker(db *gorm.DB, admin services.AdminService, interval time.Duration) *StatsWorker {
	return &StatsWorker{
		db:       db,
		admin:    admin,
		interval: interval,
	}
}

// Start запускает фоновый цикл до отмены ctx
func (w *StatsWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *StatsWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	totals, err := w.admin.GetMetrics(w.db.WithContext(ctx))
	if err != nil {
		logger.CtxWithError(ctx, "Failed to refresh entity totals", err)
		return
	}
	metrics.SetEntityTotals(totals.TotalUsers, totals.TotalStores, totals.TotalRatings)
}
