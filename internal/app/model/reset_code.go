package model

import (
	"time"
)

// ResetCode is an outstanding one-time password reset code. There is at most one row per email.
type ResetCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"` // trimmed, lower-cased
	Code      string    `gorm:"size:6;not null" json:"-"`             // never serialized
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"` // false -> true only
	CreatedAt time.Time `json:"created_at"`
}

func (ResetCode) TableName() string {
	return "password_reset_codes"
}

// IsConsumable reports whether code matches and the row is still unused and unexpired at now.
func (r *ResetCode) IsConsumable(code string, now time.Time) bool {
	return !r.Used && r.Code == code && !now.After(r.ExpiresAt)
}
