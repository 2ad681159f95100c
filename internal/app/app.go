package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"store_rating_backend/database"
	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/config"
	"store_rating_backend/internal/handlers"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/models"
	"store_rating_backend/internal/ratelimit"
	"store_rating_backend/internal/routes"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"
	"store_rating_backend/internal/validator"
	"store_rating_backend/internal/workers"
	"store_rating_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout    = 10 * time.Second
	statsRefreshPeriod = time.Minute
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(gormDB); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter, closeLimiter := newAuthLimiter(ctx, cfg)
	defer closeLimiter()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	serviceContainer := services.NewServiceContainer(tokens)
	ginRouter := SetupRouter(cfg, gormDB, serviceContainer, tokens, limiter)

	workers.NewStatsWorker(gormDB, serviceContainer.AdminService, statsRefreshPeriod).Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           ginRouter,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("Server startup error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает хэндлеры, middleware и маршруты поверх готовых сервисов
func SetupRouter(
	cfg *config.Config,
	gormDB *gorm.DB,
	serviceContainer *services.ServiceContainer,
	tokens *auth.TokenManager,
	authLimiter ratelimit.Limiter,
) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer, gormDB)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.NewAuthenticator(tokens), authLimiter)

	return ginRouter
}

func initializeHandlers(services *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(baseHandler, services.AuthService),
		StoreHandler:  handlers.NewStoreHandler(baseHandler, services.StoreService),
		RatingHandler: handlers.NewRatingHandler(baseHandler, services.RatingService),
		UserHandler:   handlers.NewUserHandler(baseHandler, services.UserService),
		AdminHandler:  handlers.NewAdminHandler(baseHandler, services.AdminService),
		HealthHandler: handlers.NewHealthHandler(gormDB),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxies", "error", err)
	}

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// newAuthLimiter выбирает Redis, если задан адрес, иначе лимитер в памяти.
// Недоступный Redis не мешает старту: остается лимитер процесса.
func newAuthLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func()) {
	policy := ratelimit.Policy{
		Attempts: cfg.RateLimit.Attempts,
		Window:   time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
	}

	if cfg.Redis.Addr != "" {
		client, err := ratelimit.NewRedisClient(ctx, ratelimit.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			logger.Info("Auth rate limiter backed by redis", "addr", cfg.Redis.Addr)
			return ratelimit.NewRedisLimiter(client, "store_rating:auth", policy), func() { _ = client.Close() }
		}
		logger.Warn("Redis unavailable, falling back to in-memory rate limiter", "error", err)
	}

	limiter := ratelimit.NewMemoryLimiter(policy)
	limiter.StartCleanup(ctx, policy.Window)
	return limiter, func() {}
}

// seedFirstAdmin создает администратора из FIRST_ADMIN_EMAIL/FIRST_ADMIN_PASSWORD,
// если такого email еще нет. Повторный запуск ничего не меняет.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := dto.NormalizeEmail(cfg.FirstAdminEmail)
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	if err := auth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("first admin password rejected: %w", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         cfg.FirstAdminName,
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
	}

	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail, "user_id", newAdmin.ID)
	return tx.Commit().Error
}
