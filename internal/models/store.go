package models

// Store - оцениваемая точка. Средняя оценка не хранится,
// она считается агрегатом при каждом чтении.
type Store struct {
	BaseModel
	Name    string  `gorm:"type:varchar(255);not null;index"`
	Email   *string `gorm:"type:varchar(255)"`
	Address *string `gorm:"type:varchar(400)"`
	OwnerID *uint   `gorm:"index"`

	// Relations
	Ratings []Rating `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}
