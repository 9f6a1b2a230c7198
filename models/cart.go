package models

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
	CartStatusAbandoned CartStatus = "abandoned"
)

// Cart holds the single active cart per user. A partial unique index on
// (user_id) WHERE status='active' (created at boot, see main.go) backs the
// one-active-cart invariant; converted carts are kept for order provenance.
type Cart struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID uint       `gorm:"not null;index" json:"user_id"`
	Status CartStatus `gorm:"type:VARCHAR(20);default:'active';index" json:"status"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	// Denormalized aggregates; always equal to a pure recomputation from Items.
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TaxAmount     float64 `json:"tax_amount"`
	GrandTotal    float64 `json:"grand_total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is a snapshot of the product/variant at the time it was added.
type CartItem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	CartID uint `gorm:"index" json:"cart_id"`

	ProductID uint `gorm:"not null" json:"product_id"`
	VariantID uint `gorm:"not null" json:"variant_id"`

	Name     string  `json:"name"`
	Image    string  `json:"image"`
	PackSize float64 `json:"pack_size"`
	PackUnit string  `json:"pack_unit"`

	Price       float64 `json:"price"`
	MRP         float64 `json:"mrp"`
	DiscountPct float64 `json:"discount_pct"`

	GSTPercent   float64 `json:"gst_percent"`
	TaxInclusive bool    `json:"tax_inclusive"`

	Quantity int     `gorm:"not null" json:"quantity"`
	Subtotal float64 `json:"subtotal"`

	AddedAt time.Time `json:"added_at"`
}
