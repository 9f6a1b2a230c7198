package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Image    string `json:"image"`
	Position int    `gorm:"default:0" json:"position"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
