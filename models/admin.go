package models

import "time"

// Admin is a singleton: registration is rejected once a row exists.
type Admin struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `json:"name"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
