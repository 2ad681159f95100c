package repositories

import (
	"errors"
	"time"

	"store_rating_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingAlreadyExists = errors.New("rating already exists for this store")
	ErrRatingStoreNotFound = errors.New("rated store does not exist")
	ErrRatingRaterNotFound = errors.New("rater does not exist")
)

// RatingScope - какую оценку ищем. С RaterID строка выбирается только
// среди оценок автора: чужая и несуществующая неотличимы (ErrRatingNotFound).
type RatingScope struct {
	ID      uint
	RaterID *uint
}

func (s RatingScope) apply(db *gorm.DB) *gorm.DB {
	query := db.Where("id = ?", s.ID)
	if s.RaterID != nil {
		query = query.Where("user_id = ?", *s.RaterID)
	}
	return query
}

// RaterRow - оценка вместе с данными автора
type RaterRow struct {
	ID        uint
	Rating    int
	Comment   *string
	CreatedAt time.Time
	UserID    uint
	UserName  string
	UserEmail string
}

type RatingRepository interface {
	Create(db *gorm.DB, rating *models.Rating) error
	Update(db *gorm.DB, scope RatingScope, score int, comment *string) (*models.Rating, error)
	Delete(db *gorm.DB, scope RatingScope) error
	FindByUserForStores(db *gorm.DB, userID uint, storeIDs []uint) ([]models.Rating, error)
	FindRatersByStore(db *gorm.DB, storeID uint) ([]RaterRow, error)
	Count(db *gorm.DB) (int64, error)
}

type RatingRepositoryImpl struct{}

func NewRatingRepository() RatingRepository {
	return &RatingRepositoryImpl{}
}

// Create полагается на уникальный индекс (store_id, user_id):
// из двух конкурентных вставок одна получит ErrRatingAlreadyExists.
func (r *RatingRepositoryImpl) Create(db *gorm.DB, rating *models.Rating) error {
	err := translateError(db.Create(rating).Error)
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return ErrRatingAlreadyExists
	case errors.Is(err, ErrForeignKey):
		return r.missingReference(db, rating.StoreID)
	}
	return err
}

// missingReference выясняет, какой из двух внешних ключей оценки не нашелся.
// Имена ограничений у Postgres и MySQL разные, поэтому проверяем сам магазин.
func (r *RatingRepositoryImpl) missingReference(db *gorm.DB, storeID uint) error {
	var count int64
	if err := db.Model(&models.Store{}).Where("id = ?", storeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRatingStoreNotFound
	}
	return ErrRatingRaterNotFound
}

func (r *RatingRepositoryImpl) Update(db *gorm.DB, scope RatingScope, score int, comment *string) (*models.Rating, error) {
	var rating models.Rating
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := scope.apply(tx).First(&rating).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRatingNotFound
			}
			return err
		}

		now := time.Now()
		result := scope.apply(tx.Model(&models.Rating{})).
			Updates(map[string]interface{}{
				"rating":     score,
				"comment":    comment,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}

		rating.Score = score
		rating.Comment = comment
		rating.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) Delete(db *gorm.DB, scope RatingScope) error {
	result := scope.apply(db).Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepositoryImpl) FindByUserForStores(db *gorm.DB, userID uint, storeIDs []uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if len(storeIDs) == 0 {
		return ratings, nil
	}
	err := db.Where("user_id = ? AND store_id IN ?", userID, storeIDs).Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepositoryImpl) FindRatersByStore(db *gorm.DB, storeID uint) ([]RaterRow, error) {
	var rows []RaterRow
	err := db.Table("ratings").
		Select("ratings.id, ratings.rating, ratings.comment, ratings.created_at, " +
			"users.id AS user_id, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC").
		Order("ratings.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *RatingRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Rating{}).Count(&count).Error
	return count, err
}
