package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	Image    string `json:"image"`
	Position int    `json:"position"`
}

// POST /categories (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var count int64
		if err := db.Model(&models.Category{}).Unscoped().
			Where("slug = ?", Slugify(input.Name)).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create category"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Category already exists"})
			return
		}

		category := models.Category{
			Name:     input.Name,
			Slug:     Slugify(input.Name),
			Image:    input.Image,
			Position: input.Position,
			IsActive: true,
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
	}
}

// GET /categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("position ASC, name ASC")
		if c.Query("all") != "true" {
			query = query.Where("is_active = ?", true)
		}

		var categories []models.Category
		if err := query.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
	}
}

// GET /categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var category models.Category
		if err := db.Where("id::text = ? OR slug = ?", id, id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
	}
}

// PUT /categories/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		var input struct {
			Name     *string `json:"name"`
			Image    *string `json:"image"`
			Position *int    `json:"position"`
			IsActive *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if input.Name != nil && *input.Name != category.Name {
			updates["name"] = *input.Name
			updates["slug"] = Slugify(*input.Name)
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.Position != nil {
			updates["position"] = *input.Position
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&category).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update category"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
	}
}

// PUT /categories/reorder (admin)
func ReorderCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Order []uint `json:"order" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for position, id := range input.Order {
				res := tx.Model(&models.Category{}).Where("id = ?", id).Update("position", position)
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
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "One or more categories not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reorder categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Categories reordered"})
	}
}

// GET /categories/:id/stats (admin)
// Dashboard counters for one category.
func CategoryStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		var productCount, activeCount, variantCount int64
		if err := db.Model(&models.Product{}).Where("category_id = ?", category.ID).
			Count(&productCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category stats"})
			return
		}
		if err := db.Model(&models.Product{}).Where("category_id = ? AND is_active = ?", category.ID, true).
			Count(&activeCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category stats"})
			return
		}
		if err := db.Model(&models.Variant{}).
			Joins("JOIN products ON products.id = variants.product_id").
			Where("products.category_id = ? AND products.deleted_at IS NULL", category.ID).
			Count(&variantCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"category":        gin.H{"id": category.ID, "name": category.Name, "slug": category.Slug},
			"product_count":   productCount,
			"active_products": activeCount,
			"variant_count":   variantCount,
		}})
	}
}

// DELETE /categories/:id (admin)
// Refused while active products still reference the category; ?hard=true
// removes the row permanently.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Unscoped().First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
			return
		}

		var inUse int64
		if err := db.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete category"})
			return
		}
		if inUse > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Category still has products"})
			return
		}

		query := db
		if c.Query("hard") == "true" {
			query = db.Unscoped()
		}
		if err := query.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
	}
}
