package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

var errItemNotFound = errors.New("item not found in cart")

func errStock(variant *models.Variant, requested int) error {
	return &inventory.InsufficientStockError{
		ProductID: variant.ProductID,
		VariantID: variant.ID,
		Requested: requested,
		Available: variant.Stock,
	}
}

// respondCartError translates cart workflow errors into the response
// taxonomy: 404 missing cart/item, 409 stock conflicts, 400 validation,
// 500 otherwise.
func respondCartError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": stockErr.Error(),
			"errors": []gin.H{{
				"product_id": stockErr.ProductID,
				"variant_id": stockErr.VariantID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			}},
		})
	case errors.Is(err, errItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errItemNotFound.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Two first-adds racing on the one-active-cart index.
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cart was just created, retry the request"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No active cart"})
	case errors.Is(err, inventory.ErrVariantNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": inventory.ErrVariantNotFound.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	}
}
