package main

import (
	"context"
	"errors"

	"store_rating_backend/database"
	"store_rating_backend/internal/config"
	"store_rating_backend/internal/logger"
)

// Заполняет пустую базу демо-данными (admin/user/owner, пять магазинов).
func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	err = database.SeedSample(context.Background(), db)
	switch {
	case errors.Is(err, database.ErrAlreadySeeded):
		logger.Info("Database already seeded, skipping")
	case err != nil:
		logger.Fatal("Seeding failed", "error", err)
	default:
		logger.Info("Database seeded successfully")
	}
}
