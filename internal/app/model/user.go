package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // account ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // normalized login email
	PasswordHash string         `gorm:"not null" json:"-"`                 // bcrypt hash
	DisplayName  string         `gorm:"size:100" json:"display_name"`      // name shown on recipes and comments
	AvatarURL    string         `json:"avatar_url"`                        // profile picture
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
