package reviewControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RoundRating rounds an average to one decimal, half away from zero.
func RoundRating(avg float64) float64 {
	return math.Floor(avg*10+0.5) / 10
}

// recomputeProductRating refreshes the denormalized aggregates from the
// active reviews. Runs inside the review mutation's transaction.
func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_active = ?", productID, true).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       RoundRating(stats.Avg),
			"review_count": stats.Count,
		}).Error
}

// POST /products/:id/reviews
// One review per user per product; writing again replaces the old one.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		productID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}
		productID := uint(productID64)

		var product models.Product
		if err := db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var review models.Review
		created := false
		err = db.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
			switch {
			case err == nil:
				review.Rating = input.Rating
				review.Comment = input.Comment
				review.IsActive = true
				if err := tx.Save(&review).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				created = true
				review = models.Review{
					UserID:    userID,
					ProductID: productID,
					Rating:    input.Rating,
					Comment:   input.Comment,
					IsActive:  true,
				}
				if err := tx.Create(&review).Error; err != nil {
					return err
				}
			default:
				return err
			}
			return recomputeProductRating(tx, productID)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save review"})
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"success": true, "data": review})
	}
}

// GET /products/:id/reviews
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.Where("product_id = ? AND is_active = ?", c.Param("id"), true).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
	}
}

// DELETE /reviews/:id
// Owners remove their own review; the product aggregates follow.
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var review models.Review
			if err := tx.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&review).Error; err != nil {
				return err
			}
			if err := tx.Delete(&review).Error; err != nil {
				return err
			}
			return recomputeProductRating(tx, review.ProductID)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}

// PATCH /reviews/:id/toggle (admin)
// Hides or restores a review for moderation; aggregates are recomputed
// either way.
func ToggleReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&review, c.Param("id")).Error; err != nil {
				return err
			}
			review.IsActive = !review.IsActive
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
			return recomputeProductRating(tx, review.ProductID)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update review"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
	}
}
