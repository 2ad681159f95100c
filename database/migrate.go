package database

import (
	"fmt"

	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate создает или дополняет таблицы users, stores, ratings
// вместе с индексами, CHECK и внешними ключами из тегов моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Rating{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
