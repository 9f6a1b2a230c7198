package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Unit        string `json:"unit"` // e.g. "kg", "pc", "ltr"
	Image       string `json:"image"`

	CategoryID uint     `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`

	IsFeatured bool `gorm:"default:false" json:"is_featured"`
	IsTrending bool `gorm:"default:false" json:"is_trending"`
	IsBestDeal bool `gorm:"default:false" json:"is_best_deal"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	// Denormalized review aggregates, recomputed on every review mutation.
	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Variant is a purchasable pack of a product. Stock is only ever mutated
// through the inventory package so it can never be driven below zero.
type Variant struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`

	PackSize float64 `json:"pack_size"` // e.g. 500
	PackUnit string  `json:"pack_unit"` // e.g. "g", "ml"

	MRP   float64 `json:"mrp"`
	Price float64 `gorm:"not null" json:"price"`

	Stock      int `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	LowStockAt int `gorm:"default:5" json:"low_stock_at"`

	IsDefault bool `gorm:"default:false" json:"is_default"`
	IsActive  bool `gorm:"default:true" json:"is_active"`
	Position  int  `gorm:"default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultVariant returns the default variant, falling back to the first one.
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}
