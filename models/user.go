package models

import "time"

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `json:"name"`
	Phone string `gorm:"uniqueIndex;not null" json:"phone"`
	Email string `json:"email"`

	PasswordHash string `gorm:"column:password_hash" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
