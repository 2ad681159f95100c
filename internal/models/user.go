package models

type User struct {
	BaseModel
	Name         string   `gorm:"type:varchar(60);not null;check:chk_users_name_length,char_length(name) >= 20 AND char_length(name) <= 60"`
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string   `gorm:"type:varchar(255);not null"`
	Address      *string  `gorm:"type:varchar(400)"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user';index;check:chk_users_role,role IN ('admin','user','owner')"`

	// Relations
	Stores  []Store  `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Ratings []Rating `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
