package models

// Rating - одна оценка пользователя для магазина.
// Пара (store_id, user_id) уникальна на уровне индекса.
type Rating struct {
	BaseModel
	StoreID uint    `gorm:"not null;uniqueIndex:idx_ratings_store_user,priority:1"`
	UserID  uint    `gorm:"not null;uniqueIndex:idx_ratings_store_user,priority:2;index"`
	Score   int     `gorm:"column:rating;not null;check:chk_ratings_rating,rating >= 1 AND rating <= 5"`
	Comment *string `gorm:"type:text"`
}
