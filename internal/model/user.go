package model

// User — зарегистрированный пользователь
type User struct {
	BaseModel
	PublicID     int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	Username     string `gorm:"uniqueIndex;type:varchar(100);not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
