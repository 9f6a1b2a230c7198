package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/auth"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/admin/register
// Exactly one admin account exists; registration closes after the first.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var admin models.Admin
		err := db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Admin{}).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAdminExists
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin = models.Admin{
				Name:         input.Name,
				Email:        input.Email,
				PasswordHash: string(hash),
			}
			return tx.Create(&admin).Error
		})
		if err != nil {
			if errors.Is(err, errAdminExists) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin account already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to register admin"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		}})
	}
}

var errAdminExists = errors.New("admin account already exists")

// POST /api/admin/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", input.Email).First(&admin).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		token, err := auth.IssueToken(admin.ID, "admin")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"token": token,
			"admin": gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
		}})
	}
}
