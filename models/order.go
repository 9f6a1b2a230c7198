package models

import "time"

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// Order is an immutable snapshot taken at checkout. Items and totals are
// copies of the cart at conversion time, never live references. Orders are
// never deleted; they only move through the status state machine.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	CartID      uint   `json:"cart_id"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TaxAmount     float64 `json:"tax_amount"`
	DeliveryFee   float64 `json:"delivery_fee"`
	GrandTotal    float64 `json:"grand_total"`

	Status OrderStatus `gorm:"type:VARCHAR(20);default:'placed'" json:"status"`

	// Payment summary, mirrored from the Payment row on every transition.
	PaymentID     uint          `json:"payment_id"`
	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20)" json:"payment_status"`
	IsCod         bool          `json:"is_cod"`

	// Address snapshot.
	AddressID    uint   `json:"address_id"`
	AddressLabel string `json:"address_label"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	ContactPhone string `json:"contact_phone"`

	DeliverySlot string `json:"delivery_slot"`
	Notes        string `json:"notes"`

	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`

	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`

	Name     string  `json:"name"`
	Image    string  `json:"image"`
	PackSize float64 `json:"pack_size"`
	PackUnit string  `json:"pack_unit"`

	Price       float64 `json:"price"`
	MRP         float64 `json:"mrp"`
	DiscountPct float64 `json:"discount_pct"`

	GSTPercent   float64 `json:"gst_percent"`
	TaxInclusive bool    `json:"tax_inclusive"`

	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}
