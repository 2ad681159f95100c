package database

import (
	"context"
	"errors"
	"fmt"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadySeeded - в базе уже есть пользователи, демо-данные не нужны
var ErrAlreadySeeded = errors.New("database already seeded")

type sampleUser struct {
	name, email, password, address string
	role                           models.UserRole
}

var sampleUsers = []sampleUser{
	{"System Administrator User", "admin@example.com", "Admin@123!", "123 Admin Street, Admin City, AC 12345", models.UserRoleAdmin},
	{"Regular Normal User Account", "user@example.com", "User@123!", "456 User Avenue, User Town, UT 67890", models.UserRoleUser},
	{"Store Owner Account User", "owner@example.com", "Owner@123!", "789 Owner Boulevard, Owner City, OC 11111", models.UserRoleOwner},
}

type sampleStore struct {
	name, email, address string
	owned                bool
}

var sampleStores = []sampleStore{
	{"Tech Haven Electronics", "contact@techhaven.com", "100 Tech Street, Silicon Valley, CA 94000", true},
	{"Green Grocery Market Store", "info@greengrocery.com", "200 Fresh Avenue, Portland, OR 97000", true},
	{"Fashion Forward Boutique", "hello@fashionforward.com", "300 Style Lane, New York, NY 10000", false},
	{"Book Nook Library Store", "books@booknook.com", "400 Reading Road, Boston, MA 02000", false},
	{"Coffee Corner Cafe Shop", "cafe@coffeecorner.com", "500 Brew Street, Seattle, WA 98000", false},
}

var sampleRatings = []struct {
	store   int
	score   int
	comment string
}{
	{0, 5, "Excellent service and great products!"},
	{1, 4, "Fresh produce, good prices"},
	{2, 3, "Nice selection but a bit pricey"},
}

// SeedSample заполняет пустую базу демо-данными: три учетные записи
// (admin, user, owner), пять магазинов и три оценки обычного пользователя.
// Если пользователи уже есть, возвращает ErrAlreadySeeded.
func SeedSample(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return ErrAlreadySeeded
		}

		users := make([]models.User, 0, len(sampleUsers))
		for _, su := range sampleUsers {
			hash, err := auth.HashPassword(su.password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", su.email, err)
			}
			address := su.address
			users = append(users, models.User{
				Name:         su.name,
				Email:        su.email,
				PasswordHash: hash,
				Address:      &address,
				Role:         su.role,
			})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}
		regular, owner := users[1], users[2]

		stores := make([]models.Store, 0, len(sampleStores))
		for _, ss := range sampleStores {
			email, address := ss.email, ss.address
			s := models.Store{Name: ss.name, Email: &email, Address: &address}
			if ss.owned {
				ownerID := owner.ID
				s.OwnerID = &ownerID
			}
			stores = append(stores, s)
		}
		if err := tx.Create(&stores).Error; err != nil {
			return fmt.Errorf("create stores: %w", err)
		}

		ratings := make([]models.Rating, 0, len(sampleRatings))
		for _, sr := range sampleRatings {
			comment := sr.comment
			ratings = append(ratings, models.Rating{
				StoreID: stores[sr.store].ID,
				UserID:  regular.ID,
				Score:   sr.score,
				Comment: &comment,
			})
		}
		if err := tx.Create(&ratings).Error; err != nil {
			return fmt.Errorf("create ratings: %w", err)
		}

		logger.CtxInfo(ctx, "Sample data seeded", "users", len(users), "stores", len(stores), "ratings", len(ratings))
		return nil
	})
}
