package repositories

import (
	"errors"
	"strings"
	"time"

	"store_rating_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	UpdatePassword(db *gorm.DB, id uint, passwordHash string) error
	Delete(db *gorm.DB, id uint) error

	// Admin operations
	FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)
	Count(db *gorm.DB) (int64, error)
}

type UserFilter struct {
	Role     models.UserRole
	Search   string
	Page     int
	PageSize int
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	err := translateError(db.Create(user).Error)
	if errors.Is(err, ErrDuplicateKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, id uint, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete удаляет пользователя в одной транзакции: магазины остаются
// без владельца, оценки пользователя удаляются.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Store{}).Where("owner_id = ?", id).
			Update("owner_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	var users []models.User
	query := db.Model(&models.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order("created_at DESC").Order("id DESC").
		Limit(filter.PageSize).Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// likePattern экранирует спецсимволы LIKE и оборачивает в %...%.
// Регистр приводится к нижнему, сравнение идет с LOWER(column).
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
