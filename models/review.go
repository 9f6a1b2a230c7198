package models

import "time"

// Review is unique per (user, product). Product.Rating and
// Product.ReviewCount are recomputed over active reviews after every
// mutation.
type Review struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_product_review" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_user_product_review;index" json:"product_id"`

	Rating   int    `gorm:"not null" json:"rating"` // 1..5
	Comment  string `json:"comment"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
