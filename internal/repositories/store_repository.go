package repositories

import (
	"errors"
	"time"

	"store_rating_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreOwnerNotFound = errors.New("store owner does not exist")
)

// Допустимые поля сортировки -> SQL выражение (только белый список)
var storeSortColumns = map[string]string{
	"name":       "stores.name",
	"created_at": "stores.created_at",
	"rating":     "avg_rating",
}

// StoreSummary - строка магазина вместе с агрегатами по оценкам
type StoreSummary struct {
	ID          uint
	Name        string
	Email       *string
	Address     *string
	OwnerID     *uint
	CreatedAt   time.Time
	AvgRating   float64
	RatingCount int64
}

type StoreFilter struct {
	Search   string // подстрока в названии
	Address  string // подстрока в адресе
	SortBy   string // name | created_at | rating
	Desc     bool
	Page     int
	PageSize int
}

type StoreRepository interface {
	Create(db *gorm.DB, store *models.Store) error
	FindByID(db *gorm.DB, id uint) (*models.Store, error)
	FindSummaryByID(db *gorm.DB, id uint) (*StoreSummary, error)
	FindWithFilter(db *gorm.DB, filter StoreFilter) ([]StoreSummary, int64, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) (*models.Store, error)
	Delete(db *gorm.DB, id uint) error
	Count(db *gorm.DB) (int64, error)
}

type StoreRepositoryImpl struct{}

func NewStoreRepository() StoreRepository {
	return &StoreRepositoryImpl{}
}

func (r *StoreRepositoryImpl) Create(db *gorm.DB, store *models.Store) error {
	err := translateError(db.Create(store).Error)
	if errors.Is(err, ErrForeignKey) {
		return ErrStoreOwnerNotFound
	}
	return err
}

func (r *StoreRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Store, error) {
	var store models.Store
	err := db.First(&store, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return &store, nil
}

// summaryQuery - магазины с LEFT JOIN на оценки; средняя 0 при отсутствии оценок
func summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Table("stores").
		Select("stores.id, stores.name, stores.email, stores.address, stores.owner_id, stores.created_at, " +
			"COALESCE(AVG(ratings.rating), 0) AS avg_rating, COUNT(ratings.id) AS rating_count").
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Group("stores.id")
}

func (r *StoreRepositoryImpl) FindSummaryByID(db *gorm.DB, id uint) (*StoreSummary, error) {
	var rows []StoreSummary
	if err := summaryQuery(db).Where("stores.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStoreNotFound
	}
	return &rows[0], nil
}

func applyStoreFilter(query *gorm.DB, filter StoreFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(stores.name) LIKE ?", likePattern(filter.Search))
	}
	if filter.Address != "" {
		query = query.Where("LOWER(stores.address) LIKE ?", likePattern(filter.Address))
	}
	return query
}

func (r *StoreRepositoryImpl) FindWithFilter(db *gorm.DB, filter StoreFilter) ([]StoreSummary, int64, error) {
	var total int64
	if err := applyStoreFilter(db.Model(&models.Store{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := storeSortColumns[filter.SortBy]
	if !ok {
		column = storeSortColumns["name"]
	}
	direction := " ASC"
	if filter.Desc {
		direction = " DESC"
	}

	var rows []StoreSummary
	offset := (filter.Page - 1) * filter.PageSize
	err := applyStoreFilter(summaryQuery(db), filter).
		Order(column + direction).
		Order("stores.id ASC").
		Limit(filter.PageSize).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update меняет только переданные поля и обновляет updated_at
func (r *StoreRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) (*models.Store, error) {
	var store models.Store
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&store, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoreNotFound
			}
			return err
		}

		updates := make(map[string]interface{}, len(fields)+1)
		for k, v := range fields {
			updates[k] = v
		}
		updates["updated_at"] = time.Now()

		err := translateError(tx.Model(&store).Updates(updates).Error)
		if errors.Is(err, ErrForeignKey) {
			return ErrStoreOwnerNotFound
		}
		if err != nil {
			return err
		}
		return tx.First(&store, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// Delete удаляет магазин вместе с его оценками
func (r *StoreRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Store{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStoreNotFound
		}
		return nil
	})
}

func (r *StoreRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Store{}).Count(&count).Error
	return count, err
}
