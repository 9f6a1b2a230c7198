package models

import "time"

type PaymentMethod string
type PaymentStatus string

const (
	PaymentMethodCod        PaymentMethod = "cod"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"

	PaymentStatusInitiated     PaymentStatus = "initiated"
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusSuccess       PaymentStatus = "success"
	PaymentStatusFailed        PaymentStatus = "failed"
	PaymentStatusCancelled     PaymentStatus = "cancelled"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusPartialRefund PaymentStatus = "partial_refund"
)

// Payment tracks the lifecycle of the money side of an order. COD payments
// are created directly in "pending" with IsCod set; online methods start in
// "initiated" and move through the gateway verification flow.
type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	UserID  uint `gorm:"index" json:"user_id"`

	Amount float64       `gorm:"not null" json:"amount"`
	Method PaymentMethod `gorm:"type:VARCHAR(20);not null" json:"method"`
	Status PaymentStatus `gorm:"type:VARCHAR(20);default:'initiated'" json:"status"`

	IsCod        bool       `gorm:"default:false" json:"is_cod"`
	CodCollected bool       `gorm:"default:false" json:"cod_collected"`
	CollectedAt  *time.Time `json:"collected_at,omitempty"`

	GatewayName      string `json:"gateway_name,omitempty"`
	GatewayOrderID   string `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	Signature        string `json:"-"`
	RawResponse      string `json:"-"`

	RefundAmount float64    `json:"refund_amount,omitempty"`
	RefundReason string     `json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllowedMethods is the fixed set accepted at checkout.
var AllowedMethods = []PaymentMethod{
	PaymentMethodCod,
	PaymentMethodCard,
	PaymentMethodUPI,
	PaymentMethodNetbanking,
	PaymentMethodWallet,
}

func ValidPaymentMethod(m PaymentMethod) bool {
	for _, allowed := range AllowedMethods {
		if m == allowed {
			return true
		}
	}
	return false
}
