package paymentControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parthsavaliya1/VADI-BACKEND/gateway"
	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPaymentTransition):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
	}
}

// loadOwned fetches a payment and enforces ownership for non-admin callers.
func loadOwned(db *gorm.DB, c *gin.Context, id string) (*models.Payment, bool) {
	var payment models.Payment
	if err := db.First(&payment, id).Error; err != nil {
		respondPaymentError(c, err)
		return nil, false
	}
	if _, isAdmin := c.Get("admin_id"); !isAdmin {
		userID, _ := middleware.CurrentUserID(c)
		if payment.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your payment"})
			return nil, false
		}
	}
	return &payment, true
}

// GET /payments/:id
func GetPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, ok := loadOwned(db, c, c.Param("id"))
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}

// GET /payments/order/:orderId
func GetPaymentByOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payment models.Payment
		if err := db.Where("order_id = ?", c.Param("orderId")).First(&payment).Error; err != nil {
			respondPaymentError(c, err)
			return
		}
		if _, isAdmin := c.Get("admin_id"); !isAdmin {
			userID, _ := middleware.CurrentUserID(c)
			if payment.UserID != userID {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your payment"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}

// POST /payments/:id/initiate
// Starts (or restarts) the hosted gateway flow for an online payment and
// returns the payment URL the client should open.
func InitiatePayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, ok := loadOwned(db, c, c.Param("id"))
		if !ok {
			return
		}
		if payment.IsCod {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cash on delivery does not use the gateway"})
			return
		}
		if payment.Status != models.PaymentStatusInitiated && payment.Status != models.PaymentStatusPending {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Payment can no longer be initiated"})
			return
		}

		var order models.Order
		if err := db.First(&order, payment.OrderID).Error; err != nil {
			respondPaymentError(c, err)
			return
		}

		res, err := gateway.Initiate(order.OrderNumber, payment.Amount, "", order.ContactPhone)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Payment gateway is unavailable"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			payment.GatewayName = "hostedpage"
			payment.GatewayOrderID = res.GatewayRef
			payment.RawResponse = res.Raw
			if payment.Status == models.PaymentStatusInitiated {
				return ApplyStatus(tx, payment, models.PaymentStatusPending)
			}
			return tx.Save(payment).Error
		})
		if err != nil {
			respondPaymentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"payment":     payment,
			"payment_url": res.PaymentURL,
		}})
	}
}

type FailPaymentInput struct {
	Reason string `json:"reason"`
}

// POST /payments/:id/fail
func FailPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FailPaymentInput
		_ = c.ShouldBindJSON(&input)

		payment, ok := loadOwned(db, c, c.Param("id"))
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(payment, payment.ID).Error; err != nil {
				return err
			}
			payment.FailureReason = input.Reason
			return ApplyStatus(tx, payment, models.PaymentStatusFailed)
		})
		if err != nil {
			respondPaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}

type RefundInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}

// POST /payments/:id/refund (admin)
// Full refunds mark the payment refunded; anything less is a partial refund.
func RefundPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RefundInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var payment models.Payment
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&payment, c.Param("id")).Error; err != nil {
				return err
			}
			if input.Amount > payment.Amount {
				return errRefundTooLarge
			}

			now := time.Now()
			payment.RefundAmount = input.Amount
			payment.RefundReason = input.Reason
			payment.RefundedAt = &now

			target := models.PaymentStatusRefunded
			if input.Amount < payment.Amount {
				target = models.PaymentStatusPartialRefund
			}
			return ApplyStatus(tx, &payment, target)
		})
		if err != nil {
			if errors.Is(err, errRefundTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refund amount exceeds the amount paid"})
				return
			}
			respondPaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}

var errRefundTooLarge = errors.New("refund amount exceeds payment amount")

// POST /payments/:id/collect-cod (admin)
func CollectCod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payment models.Payment
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&payment, c.Param("id")).Error; err != nil {
				return err
			}
			return MarkCodCollected(tx, &payment)
		})
		if err != nil {
			respondPaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}
