package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/cache"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func invalidateForProduct(c *gin.Context, rdb *redis.Client, product *models.Product) {
	cache.InvalidateProduct(c.Request.Context(), rdb, product.Slug)
	cache.InvalidateProduct(c.Request.Context(), rdb, strconv.FormatUint(uint64(product.ID), 10))
}

// POST /products/:id/variants (admin)
func AddVariant(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Variants").First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		variant := models.Variant{
			ProductID:  product.ID,
			PackSize:   input.PackSize,
			PackUnit:   input.PackUnit,
			MRP:        input.MRP,
			Price:      input.Price,
			Stock:      input.Stock,
			LowStockAt: input.LowStockAt,
			IsDefault:  input.IsDefault,
			IsActive:   true,
			Position:   input.Position,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			// A new default demotes the previous one.
			if variant.IsDefault {
				if err := tx.Model(&models.Variant{}).
					Where("product_id = ?", product.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			} else if len(product.Variants) == 0 {
				variant.IsDefault = true
			}
			return tx.Create(&variant).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add variant"})
			return
		}

		invalidateForProduct(c, rdb, &product)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": variant})
	}
}

// PUT /products/:id/variants/:variantId (admin)
func UpdateVariant(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var variant models.Variant
		if err := db.Where("id = ? AND product_id = ?", c.Param("variantId"), product.ID).
			First(&variant).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Variant not found"})
			return
		}

		var input struct {
			PackSize   *float64 `json:"pack_size"`
			PackUnit   *string  `json:"pack_unit"`
			MRP        *float64 `json:"mrp"`
			Price      *float64 `json:"price"`
			Stock      *int     `json:"stock"`
			LowStockAt *int     `json:"low_stock_at"`
			IsDefault  *bool    `json:"is_default"`
			IsActive   *bool    `json:"is_active"`
			Position   *int     `json:"position"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if input.Price != nil && *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
			return
		}
		if input.Stock != nil && *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Stock cannot be negative"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{}
			if input.PackSize != nil {
				updates["pack_size"] = *input.PackSize
			}
			if input.PackUnit != nil {
				updates["pack_unit"] = *input.PackUnit
			}
			if input.MRP != nil {
				updates["mrp"] = *input.MRP
			}
			if input.Price != nil {
				updates["price"] = *input.Price
			}
			if input.Stock != nil {
				updates["stock"] = *input.Stock
			}
			if input.LowStockAt != nil {
				updates["low_stock_at"] = *input.LowStockAt
			}
			if input.IsActive != nil {
				updates["is_active"] = *input.IsActive
			}
			if input.Position != nil {
				updates["position"] = *input.Position
			}
			if input.IsDefault != nil && *input.IsDefault {
				if err := tx.Model(&models.Variant{}).
					Where("product_id = ? AND id != ?", product.ID, variant.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
				updates["is_default"] = true
			}
			if len(updates) == 0 {
				return nil
			}
			return tx.Model(&variant).Updates(updates).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update variant"})
			return
		}

		invalidateForProduct(c, rdb, &product)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": variant})
	}
}

// DELETE /products/:id/variants/:variantId (admin)
// Removing the default variant promotes the first remaining one.
func DeleteVariant(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var variant models.Variant
			if err := tx.Where("id = ? AND product_id = ?", c.Param("variantId"), product.ID).
				First(&variant).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&models.Variant{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
				return err
			}
			if count <= 1 {
				return errLastVariant
			}

			if err := tx.Delete(&variant).Error; err != nil {
				return err
			}

			if variant.IsDefault {
				var next models.Variant
				if err := tx.Where("product_id = ?", product.ID).
					Order("position ASC, id ASC").First(&next).Error; err != nil {
					return err
				}
				return tx.Model(&next).Update("is_default", true).Error
			}
			return nil
		})
		if err != nil {
			switch {
			case errors.Is(err, errLastVariant):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A product needs at least one variant"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Variant not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete variant"})
			}
			return
		}

		invalidateForProduct(c, rdb, &product)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Variant deleted"})
	}
}

var errLastVariant = errors.New("cannot delete the last variant")

type BulkStockUpdate struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Stock     int  `json:"stock" binding:"min=0"`
}

// PATCH /products/variants/bulk-stock (admin)
// Restock endpoint used after goods-in; applies every row or none.
func BulkUpdateStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Updates []BulkStockUpdate `json:"updates" binding:"required,min=1,dive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, u := range input.Updates {
				res := tx.Model(&models.Variant{}).Where("id = ?", u.VariantID).Update("stock", u.Stock)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return gorm.ErrRecordNotFound
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "One or more variants not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock updated"})
	}
}
