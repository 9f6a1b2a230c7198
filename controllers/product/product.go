package productcontroller

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/cache"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

type VariantInput struct {
	PackSize   float64 `json:"pack_size"`
	PackUnit   string  `json:"pack_unit"`
	MRP        float64 `json:"mrp"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Stock      int     `json:"stock" binding:"min=0"`
	LowStockAt int     `json:"low_stock_at"`
	IsDefault  bool    `json:"is_default"`
	Position   int     `json:"position"`
}

type ProductInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Unit        string         `json:"unit"`
	Image       string         `json:"image"`
	CategoryID  uint           `json:"category_id" binding:"required"`
	IsFeatured  bool           `json:"is_featured"`
	IsTrending  bool           `json:"is_trending"`
	IsBestDeal  bool           `json:"is_best_deal"`
	Variants    []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a url-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a counter until the slug is free.
func uniqueSlug(db *gorm.DB, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(&models.Product{}).Unscoped().Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

// ensureOneDefault leaves exactly one default variant, preferring the one
// already flagged.
func ensureOneDefault(variants []models.Variant) {
	defaultSeen := false
	for i := range variants {
		if variants[i].IsDefault {
			if defaultSeen {
				variants[i].IsDefault = false
			}
			defaultSeen = true
		}
	}
	if !defaultSeen && len(variants) > 0 {
		variants[0].IsDefault = true
	}
}

// POST /products (admin)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var category models.Category
		if err := db.First(&category, input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category not found"})
			return
		}

		slug, err := uniqueSlug(db, Slugify(input.Name))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}

		variants := make([]models.Variant, 0, len(input.Variants))
		for _, v := range input.Variants {
			variants = append(variants, models.Variant{
				PackSize:   v.PackSize,
				PackUnit:   v.PackUnit,
				MRP:        v.MRP,
				Price:      v.Price,
				Stock:      v.Stock,
				LowStockAt: v.LowStockAt,
				IsDefault:  v.IsDefault,
				IsActive:   true,
				Position:   v.Position,
			})
		}
		ensureOneDefault(variants)

		product := models.Product{
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
			Unit:        input.Unit,
			Image:       input.Image,
			CategoryID:  input.CategoryID,
			IsFeatured:  input.IsFeatured,
			IsTrending:  input.IsTrending,
			IsBestDeal:  input.IsBestDeal,
			IsActive:    true,
			Variants:    variants,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
	}
}

// GET /products
// Supports category/search/flag/price-range filters, sorting and pagination.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Variants").Preload("Category").
			Where("products.is_active = ?", true)

		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
		if slug := c.Query("category"); slug != "" {
			query = query.Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.slug = ?", slug)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("products.name ILIKE ?", "%"+search+"%")
		}
		if c.Query("featured") == "true" {
			query = query.Where("is_featured = ?", true)
		}
		if c.Query("trending") == "true" {
			query = query.Where("is_trending = ?", true)
		}
		if c.Query("best_deal") == "true" {
			query = query.Where("is_best_deal = ?", true)
		}
		// Price range applies to the active variants, so a product matches
		// when any pack falls inside the window.
		if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil && minPrice > 0 {
			query = query.Where("EXISTS (SELECT 1 FROM variants WHERE variants.product_id = products.id AND variants.is_active AND variants.price >= ?)", minPrice)
		}
		if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil && maxPrice > 0 {
			query = query.Where("EXISTS (SELECT 1 FROM variants WHERE variants.product_id = products.id AND variants.is_active AND variants.price <= ?)", maxPrice)
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}

		switch c.Query("sort") {
		case "price_asc":
			query = query.Order("(SELECT MIN(price) FROM variants WHERE variants.product_id = products.id AND variants.is_active) ASC")
		case "price_desc":
			query = query.Order("(SELECT MIN(price) FROM variants WHERE variants.product_id = products.id AND variants.is_active) DESC")
		case "rating":
			query = query.Order("rating DESC")
		default:
			query = query.Order("products.created_at DESC")
		}

		var products []models.Product
		if err := query.Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    products,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// GET /products/:id
// Accepts id or slug; hot lookups are served from redis for ten minutes.
func GetProductByID(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ctx := c.Request.Context()

		if payload := cache.GetProduct(ctx, rdb, id); payload != "" {
			c.Data(http.StatusOK, "application/json", []byte(payload))
			return
		}

		var product models.Product
		if err := db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Preload("Category").
			Where("id::text = ? OR slug = ?", id, id).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product"})
			return
		}

		body, err := json.Marshal(gin.H{"success": true, "data": product})
		if err == nil {
			cache.SetProduct(ctx, rdb, id, string(body))
			c.Data(http.StatusOK, "application/json", body)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// GET /products/:id/similar
// Other active products from the same category.
func GetSimilarProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
		if limit < 1 || limit > 50 {
			limit = 8
		}

		var similar []models.Product
		if err := db.Preload("Variants").
			Where("category_id = ? AND id != ? AND is_active = ?", product.CategoryID, product.ID, true).
			Order("rating DESC").Limit(limit).
			Find(&similar).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch similar products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": similar})
	}
}

// PUT /products/:id (admin)
func UpdateProduct(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var input struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Unit        *string `json:"unit"`
			Image       *string `json:"image"`
			CategoryID  *uint   `json:"category_id"`
			IsFeatured  *bool   `json:"is_featured"`
			IsTrending  *bool   `json:"is_trending"`
			IsBestDeal  *bool   `json:"is_best_deal"`
			IsActive    *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if input.Name != nil && *input.Name != product.Name {
			slug, err := uniqueSlug(db, Slugify(*input.Name))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
				return
			}
			updates["name"] = *input.Name
			updates["slug"] = slug
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Unit != nil {
			updates["unit"] = *input.Unit
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *input.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category not found"})
				return
			}
			updates["category_id"] = *input.CategoryID
		}
		if input.IsFeatured != nil {
			updates["is_featured"] = *input.IsFeatured
		}
		if input.IsTrending != nil {
			updates["is_trending"] = *input.IsTrending
		}
		if input.IsBestDeal != nil {
			updates["is_best_deal"] = *input.IsBestDeal
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
				return
			}
			cache.InvalidateProduct(c.Request.Context(), rdb, c.Param("id"))
			cache.InvalidateProduct(c.Request.Context(), rdb, product.Slug)
		}

		db.Preload("Variants").Preload("Category").First(&product, product.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// DELETE /products/:id and /products/:id/hard (admin)
// Soft delete keeps the row so order history stays intact; the hard variant
// removes it for good together with its variants.
func DeleteProduct(db *gorm.DB, rdb *redis.Client, hard bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Unscoped().First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if hard {
				if err := tx.Where("product_id = ?", product.ID).Delete(&models.Variant{}).Error; err != nil {
					return err
				}
				return tx.Unscoped().Delete(&product).Error
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product"})
			return
		}

		cache.InvalidateProduct(c.Request.Context(), rdb, c.Param("id"))
		cache.InvalidateProduct(c.Request.Context(), rdb, product.Slug)

		message := "Product deleted"
		if hard {
			message = "Product permanently deleted"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
	}
}

type BulkProductUpdate struct {
	ProductID  uint  `json:"product_id" binding:"required"`
	IsFeatured *bool `json:"is_featured"`
	IsTrending *bool `json:"is_trending"`
	IsBestDeal *bool `json:"is_best_deal"`
	IsActive   *bool `json:"is_active"`
}

// POST /products/bulk-update (admin)
// Merchandising flag toggles across many products at once; all or nothing.
func BulkUpdateProducts(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Updates []BulkProductUpdate `json:"updates" binding:"required,min=1,dive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, u := range input.Updates {
				updates := map[string]interface{}{}
				if u.IsFeatured != nil {
					updates["is_featured"] = *u.IsFeatured
				}
				if u.IsTrending != nil {
					updates["is_trending"] = *u.IsTrending
				}
				if u.IsBestDeal != nil {
					updates["is_best_deal"] = *u.IsBestDeal
				}
				if u.IsActive != nil {
					updates["is_active"] = *u.IsActive
				}
				if len(updates) == 0 {
					continue
				}
				res := tx.Model(&models.Product{}).Where("id = ?", u.ProductID).Updates(updates)
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
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "One or more products not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update products"})
			return
		}

		for _, u := range input.Updates {
			cache.InvalidateProduct(c.Request.Context(), rdb, strconv.FormatUint(uint64(u.ProductID), 10))
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Products updated"})
	}
}
