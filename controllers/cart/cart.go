package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
	"github.com/parthsavaliya1/VADI-BACKEND/pricing"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"min=0"`
}

type RemoveItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
}

// LineItems maps stored cart items into the pricing calculator's shape.
func LineItems(items []models.CartItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.LineItem{
			Price:        it.Price,
			MRP:          it.MRP,
			DiscountPct:  it.DiscountPct,
			GSTPercent:   it.GSTPercent,
			TaxInclusive: it.TaxInclusive,
			Quantity:     it.Quantity,
		})
	}
	return out
}

// ApplyTotals recomputes the denormalized aggregates from the cart's items.
func ApplyTotals(cart *models.Cart) {
	totals := pricing.Compute(LineItems(cart.Items))
	cart.TotalItems = totals.TotalItems
	cart.TotalQuantity = totals.TotalQuantity
	cart.Subtotal = totals.Subtotal
	cart.TotalDiscount = totals.TotalDiscount
	cart.TaxAmount = totals.TaxAmount
	cart.GrandTotal = totals.GrandTotal
}

// DiscountPct derives the effective percentage off MRP for a snapshot line.
func DiscountPct(mrp, price float64) float64 {
	if mrp <= 0 || price >= mrp {
		return 0
	}
	return pricing.Round2((mrp - price) / mrp * 100)
}

// SnapshotItem captures current product/variant data into a cart line.
func SnapshotItem(cartID uint, product *models.Product, variant *models.Variant, quantity int) models.CartItem {
	gstPercent, taxInclusive := taxParams(product)
	return models.CartItem{
		CartID:       cartID,
		ProductID:    product.ID,
		VariantID:    variant.ID,
		Name:         product.Name,
		Image:        product.Image,
		PackSize:     variant.PackSize,
		PackUnit:     variant.PackUnit,
		Price:        variant.Price,
		MRP:          variant.MRP,
		DiscountPct:  DiscountPct(variant.MRP, variant.Price),
		GSTPercent:   gstPercent,
		TaxInclusive: taxInclusive,
		Quantity:     quantity,
		Subtotal:     pricing.LineSubtotal(variant.Price, quantity),
		AddedAt:      time.Now(),
	}
}

// Grocery prices are GST-inclusive by default; GST_PERCENT/GST_EXCLUSIVE env
// overrides come through main.go into these package vars.
var (
	DefaultGSTPercent = 0.0
	DefaultGSTMode    = true // inclusive
)

func taxParams(_ *models.Product) (float64, bool) {
	return DefaultGSTPercent, DefaultGSTMode
}

func activeCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadProductVariant(db *gorm.DB, productID, variantID uint) (*models.Product, *models.Variant, string) {
	var product models.Product
	if err := db.Preload("Variants").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "Product does not exist"
		}
		return nil, nil, "Failed to validate product"
	}
	if !product.IsActive {
		return nil, nil, "Product is not available"
	}
	variant, errMsg := resolveVariant(&product, variantID)
	if errMsg != "" {
		return nil, nil, errMsg
	}
	return &product, variant, ""
}

// resolveVariant finds the requested variant; a zero variantID picks the
// product's default pack.
func resolveVariant(product *models.Product, variantID uint) (*models.Variant, string) {
	if variantID == 0 {
		variant := product.DefaultVariant()
		if variant == nil {
			return nil, "Product has no variants"
		}
		if !variant.IsActive {
			return nil, "Variant is not available"
		}
		return variant, ""
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			if !product.Variants[i].IsActive {
				return nil, "Variant is not available"
			}
			return &product.Variants[i], ""
		}
	}
	return nil, "Variant does not exist"
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		cart, err := activeCart(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Transient empty representation, nothing persisted yet.
				c.JSON(http.StatusOK, gin.H{"success": true, "data": models.Cart{
					UserID: userID,
					Status: models.CartStatusActive,
					Items:  []models.CartItem{},
				}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// GET /cart/summary
func GetCartSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		cart, err := activeCart(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"success": true, "data": pricing.Totals{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": pricing.Totals{
			TotalItems:    cart.TotalItems,
			TotalQuantity: cart.TotalQuantity,
			Subtotal:      cart.Subtotal,
			TotalDiscount: cart.TotalDiscount,
			TaxAmount:     cart.TaxAmount,
			GrandTotal:    cart.GrandTotal,
		}})
	}
}

// POST /cart/add
// Adding an already-present (product, variant) pair increases its quantity
// instead of duplicating the line. Omitting variant_id picks the product's
// default pack.
func AddItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		product, variant, errMsg := loadProductVariant(db, input.ProductID, input.VariantID)
		if errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errMsg})
			return
		}

		var cart *models.Cart
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			cart, err = activeCart(tx, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cart = &models.Cart{UserID: userID, Status: models.CartStatusActive}
				if err := tx.Create(cart).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			// Merge with an existing line for the same product+variant.
			merged := false
			for i := range cart.Items {
				it := &cart.Items[i]
				if it.ProductID == input.ProductID && it.VariantID == variant.ID {
					newQty := it.Quantity + input.Quantity
					available, err := inventory.CheckAvailable(tx, variant.ID, newQty)
					if err != nil {
						return err
					}
					if !available {
						return errStock(variant, newQty)
					}
					it.Quantity = newQty
					it.Subtotal = pricing.LineSubtotal(it.Price, newQty)
					if err := tx.Save(it).Error; err != nil {
						return err
					}
					merged = true
					break
				}
			}

			if !merged {
				available, err := inventory.CheckAvailable(tx, variant.ID, input.Quantity)
				if err != nil {
					return err
				}
				if !available {
					return errStock(variant, input.Quantity)
				}
				item := SnapshotItem(cart.ID, product, variant, input.Quantity)
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				cart.Items = append(cart.Items, item)
			}

			ApplyTotals(cart)
			return tx.Save(cart).Error
		})
		if err != nil {
			respondCartError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// PUT /cart/update
// Quantity 0 removes the line; an emptied cart is deleted outright.
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var cart *models.Cart
		deleted := false
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			cart, err = activeCart(tx, userID)
			if err != nil {
				return err
			}

			idx := -1
			for i := range cart.Items {
				if cart.Items[i].ProductID == input.ProductID && cart.Items[i].VariantID == input.VariantID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return errItemNotFound
			}

			if input.Quantity == 0 {
				if err := tx.Delete(&cart.Items[idx]).Error; err != nil {
					return err
				}
				cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			} else {
				_, variant, errMsg := loadProductVariant(tx, input.ProductID, input.VariantID)
				if errMsg != "" {
					return errors.New(errMsg)
				}
				available, err := inventory.CheckAvailable(tx, variant.ID, input.Quantity)
				if err != nil {
					return err
				}
				if !available {
					return errStock(variant, input.Quantity)
				}
				item := &cart.Items[idx]
				item.Quantity = input.Quantity
				item.Subtotal = pricing.LineSubtotal(item.Price, input.Quantity)
				if err := tx.Save(item).Error; err != nil {
					return err
				}
			}

			if len(cart.Items) == 0 {
				deleted = true
				return tx.Delete(cart).Error
			}
			ApplyTotals(cart)
			return tx.Save(cart).Error
		})
		if err != nil {
			respondCartError(c, err)
			return
		}

		if deleted {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart is now empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// DELETE /cart/remove
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input RemoveItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var cart *models.Cart
		deleted := false
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			cart, err = activeCart(tx, userID)
			if err != nil {
				return err
			}

			idx := -1
			for i := range cart.Items {
				if cart.Items[i].ProductID == input.ProductID && cart.Items[i].VariantID == input.VariantID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return errItemNotFound
			}

			if err := tx.Delete(&cart.Items[idx]).Error; err != nil {
				return err
			}
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

			if len(cart.Items) == 0 {
				deleted = true
				return tx.Delete(cart).Error
			}
			ApplyTotals(cart)
			return tx.Save(cart).Error
		})
		if err != nil {
			respondCartError(c, err)
			return
		}

		if deleted {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart is now empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// DELETE /cart/clear
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			cart, err := activeCart(tx, userID)
			if err != nil {
				return err
			}
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(cart).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No active cart"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
	}
}
