package models

import "time"

// Address belongs to a user. At most 3 active addresses per user, and exactly
// one carries IsDefault whenever the user has any; both enforced by the
// address controller, not the store.
type Address struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Label string `json:"label"` // "home", "work", ...
	Line1 string `gorm:"not null" json:"line1"`
	Line2 string `json:"line2"`
	City  string `gorm:"not null" json:"city"`
	State string `json:"state"`

	Pincode string `gorm:"not null" json:"pincode"`
	Phone   string `json:"phone"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	IsDefault bool `gorm:"default:false" json:"is_default"`
	IsActive  bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
