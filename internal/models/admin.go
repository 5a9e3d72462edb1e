package models

import "time"

// Admin is a dashboard account. The password is stored only as a bcrypt hash
// and never serialized.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (Admin) TableName() string {
	return "admins"
}
