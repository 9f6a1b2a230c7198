package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
	"github.com/parthsavaliya1/VADI-BACKEND/pricing"
)

// Issue describes a correction applied while revalidating a cart line.
type Issue struct {
	ProductID uint   `json:"product_id"`
	VariantID uint   `json:"variant_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // item_removed | price_changed | stock_low
	Detail    string `json:"detail"`
}

// POST /cart/validate
// Re-checks every line against live product/variant state: dead lines are
// dropped, stale prices refreshed in place, totals recomputed. The corrected
// cart is persisted, or deleted when nothing survives.
func ValidateCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var cart *models.Cart
		var issues []Issue
		deleted := false

		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			cart, err = activeCart(tx, userID)
			if err != nil {
				return err
			}

			survivors := cart.Items[:0]
			for i := range cart.Items {
				item := cart.Items[i]

				var product models.Product
				err := tx.First(&product, item.ProductID).Error
				productGone := errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !product.IsActive)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}

				var variant models.Variant
				variantGone := productGone
				if !productGone {
					err = tx.First(&variant, item.VariantID).Error
					variantGone = errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !variant.IsActive)
					if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
				}

				if productGone || variantGone {
					issues = append(issues, Issue{
						ProductID: item.ProductID,
						VariantID: item.VariantID,
						Name:      item.Name,
						Kind:      "item_removed",
						Detail:    "product or variant is no longer available",
					})
					if err := tx.Delete(&cart.Items[i]).Error; err != nil {
						return err
					}
					continue
				}

				if variant.Price != item.Price || variant.MRP != item.MRP {
					issues = append(issues, Issue{
						ProductID: item.ProductID,
						VariantID: item.VariantID,
						Name:      item.Name,
						Kind:      "price_changed",
						Detail:    "price was updated to the current rate",
					})
					item.Price = variant.Price
					item.MRP = variant.MRP
					item.DiscountPct = DiscountPct(variant.MRP, variant.Price)
					item.Subtotal = pricing.LineSubtotal(variant.Price, item.Quantity)
					if err := tx.Save(&item).Error; err != nil {
						return err
					}
				}

				if variant.Stock < item.Quantity {
					issues = append(issues, Issue{
						ProductID: item.ProductID,
						VariantID: item.VariantID,
						Name:      item.Name,
						Kind:      "stock_low",
						Detail:    "requested quantity exceeds current stock",
					})
				}

				survivors = append(survivors, item)
			}
			cart.Items = survivors

			if len(cart.Items) == 0 {
				deleted = true
				return tx.Delete(cart).Error
			}
			ApplyTotals(cart)
			return tx.Save(cart).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No active cart"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to validate cart"})
			return
		}

		if issues == nil {
			issues = []Issue{}
		}
		if deleted {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart is now empty", "issues": issues})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart, "issues": issues})
	}
}
