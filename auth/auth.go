package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/cache"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
	"github.com/parthsavaliya1/VADI-BACKEND/sms"
)

type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required,min=10,max=13"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SendOTPInput struct {
	Phone string `json:"phone" binding:"required,min=10,max=13"`
}

type VerifyOTPInput struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// POST /api/auth/signup
func Signup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("phone = ?", input.Phone).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Phone already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
			return
		}

		user := models.User{
			Name:         input.Name,
			Phone:        input.Phone,
			Email:        input.Email,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			// Two concurrent signups for the same phone race past the count
			// check; the unique index settles it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Phone already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
			return
		}

		token, err := IssueToken(user.ID, "user")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"user": user, "token": token}})
	}
}

// POST /api/auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("phone = ?", input.Phone).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Account is disabled"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incorrect phone or password"})
			return
		}

		token, err := IssueToken(user.ID, "user")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user, "token": token}})
	}
}

// POST /api/auth/send-otp
func SendOTP(rdb *redis.Client, sender sms.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SendOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		code := generateOTP()
		if err := cache.SetOTP(c.Request.Context(), rdb, input.Phone, code); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store OTP"})
			return
		}

		message := fmt.Sprintf("Your verification code is %s. Valid for 5 minutes.", code)
		if err := sender.Send(input.Phone, message); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"phone": input.Phone}})
	}
}

// POST /api/auth/verify-otp
// Verifying a fresh phone number creates the user on the fly.
func VerifyOTP(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		stored, err := cache.GetOTP(c.Request.Context(), rdb, input.Phone)
		if err != nil {
			if errors.Is(err, cache.ErrOTPNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP expired or not requested"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to read OTP"})
			return
		}
		if stored != input.OTP {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incorrect OTP"})
			return
		}
		cache.DeleteOTP(c.Request.Context(), rdb, input.Phone)

		var user models.User
		err = db.Where("phone = ?", input.Phone).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{Phone: input.Phone, IsActive: true}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
			return
		}

		token, err := IssueToken(user.ID, "user")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user, "token": token}})
	}
}

// generateOTP returns a 6-digit zero-padded code.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
