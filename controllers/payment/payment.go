package paymentControllers

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

// ErrInvalidPaymentTransition wraps every rejected state change so callers
// can map it to a conflict response.
var ErrInvalidPaymentTransition = errors.New("invalid payment status transition")

// paymentTransitions is the payment lifecycle. Verification may confirm a
// payment straight from initiated since gateway callbacks can outrun the
// pending update.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentStatusInitiated: {
		models.PaymentStatusPending,
		models.PaymentStatusSuccess,
		models.PaymentStatusFailed,
		models.PaymentStatusCancelled,
	},
	models.PaymentStatusPending: {
		models.PaymentStatusSuccess,
		models.PaymentStatusFailed,
		models.PaymentStatusCancelled,
	},
	models.PaymentStatusSuccess: {
		models.PaymentStatusRefunded,
		models.PaymentStatusPartialRefund,
	},
	models.PaymentStatusFailed:        {},
	models.PaymentStatusCancelled:     {},
	models.PaymentStatusRefunded:      {},
	models.PaymentStatusPartialRefund: {},
}

// CanTransition reports whether a payment may move between the two statuses.
func CanTransition(from, to models.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyStatus validates the transition, saves the payment and mirrors the
// new status onto the parent order in the same transaction.
func ApplyStatus(tx *gorm.DB, p *models.Payment, to models.PaymentStatus) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidPaymentTransition, p.Status, to)
	}
	p.Status = to
	if err := tx.Save(p).Error; err != nil {
		return err
	}
	return mirrorOnOrder(tx, p)
}

// CancelPayment voids a payment as part of an order cancellation. A payment
// the gateway already settled cannot move to cancelled, so it is refunded in
// full instead; a payment already in a terminal state is left untouched.
func CancelPayment(tx *gorm.DB, p *models.Payment, reason string) error {
	switch p.Status {
	case models.PaymentStatusSuccess:
		now := time.Now()
		p.RefundAmount = p.Amount
		p.RefundReason = reason
		p.RefundedAt = &now
		return ApplyStatus(tx, p, models.PaymentStatusRefunded)
	case models.PaymentStatusFailed, models.PaymentStatusCancelled,
		models.PaymentStatusRefunded, models.PaymentStatusPartialRefund:
		return nil
	default:
		return ApplyStatus(tx, p, models.PaymentStatusCancelled)
	}
}

// MarkCodCollected settles a COD payment on delivery: success, collected,
// timestamped. Rejected for online payments and double collection.
func MarkCodCollected(tx *gorm.DB, p *models.Payment) error {
	if !p.IsCod {
		return fmt.Errorf("%w: payment is not cash on delivery", ErrInvalidPaymentTransition)
	}
	if p.CodCollected {
		return fmt.Errorf("%w: cash already collected", ErrInvalidPaymentTransition)
	}
	if !CanTransition(p.Status, models.PaymentStatusSuccess) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidPaymentTransition, p.Status, models.PaymentStatusSuccess)
	}

	now := time.Now()
	p.Status = models.PaymentStatusSuccess
	p.CodCollected = true
	p.CollectedAt = &now
	if err := tx.Save(p).Error; err != nil {
		return err
	}
	return mirrorOnOrder(tx, p)
}

func mirrorOnOrder(tx *gorm.DB, p *models.Payment) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", p.OrderID).
		Update("payment_status", p.Status).Error
}
