// Package inventory is the only place variant stock is mutated. Decrement
// and Restore are single-statement conditional updates, so two concurrent
// checkouts can never both take the last unit and stock is never persisted
// below zero.
package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

var ErrVariantNotFound = errors.New("variant not found")

// InsufficientStockError carries enough context for the caller to render an
// actionable message.
type InsufficientStockError struct {
	ProductID uint
	VariantID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// CheckAvailable reports whether the variant exists, is active and has at
// least quantity units in stock.
func CheckAvailable(db *gorm.DB, variantID uint, quantity int) (bool, error) {
	var variant models.Variant
	if err := db.First(&variant, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrVariantNotFound
		}
		return false, err
	}
	return variant.IsActive && variant.Stock >= quantity, nil
}

// Decrement atomically subtracts quantity from the variant's stock. The
// predicate stock >= quantity makes the update a no-op under concurrent
// depletion; zero rows affected is reported as InsufficientStockError with
// the stock observed after the failed attempt.
func Decrement(db *gorm.DB, variantID uint, quantity int) error {
	res := db.Model(&models.Variant{}).
		Where("id = ? AND is_active = ? AND stock >= ?", variantID, true, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var variant models.Variant
		if err := db.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}
		return &InsufficientStockError{
			ProductID: variant.ProductID,
			VariantID: variantID,
			Requested: quantity,
			Available: variant.Stock,
		}
	}
	return nil
}

// Restore atomically adds quantity back, used when a placed order is
// cancelled.
func Restore(db *gorm.DB, variantID uint, quantity int) error {
	res := db.Model(&models.Variant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVariantNotFound
	}
	return nil
}
