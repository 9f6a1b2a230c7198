package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paymentControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/payment"
	"github.com/parthsavaliya1/VADI-BACKEND/events"
	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

type CancelOrderInput struct {
	Reason string `json:"reason"`
}

// POST /orders/:id/cancel
// Users can cancel until the order leaves the warehouse; admins at the same
// stages. Cancelling restores stock for every line and voids the payment in
// the same transaction; a payment the gateway already settled is refunded in
// full rather than cancelled.
func CancelOrder(db *gorm.DB, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CancelOrderInput
		_ = c.ShouldBindJSON(&input)

		_, isAdmin := c.Get("admin_id")
		userID, hasUser := middleware.CurrentUserID(c)
		if !isAdmin && !hasUser {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Items").First(&order, c.Param("id")).Error; err != nil {
				return err
			}
			if !isAdmin && order.UserID != userID {
				return errNotYourOrder
			}
			if !CanTransition(order.Status, models.OrderStatusCancelled) {
				return &invalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}
			}

			for _, item := range order.Items {
				if err := inventory.Restore(tx, item.VariantID, item.Quantity); err != nil {
					return err
				}
			}

			var payment models.Payment
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
				return err
			}
			reason := input.Reason
			if reason == "" {
				reason = "order cancelled"
			}
			if err := paymentControllers.CancelPayment(tx, &payment, reason); err != nil {
				return err
			}

			now := time.Now()
			order.Status = models.OrderStatusCancelled
			order.PaymentStatus = payment.Status
			order.CancelReason = input.Reason
			order.CancelledAt = &now
			return tx.Save(&order).Error
		})
		if err != nil {
			if errors.Is(err, errNotYourOrder) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your order"})
				return
			}
			respondOrderError(c, err)
			return
		}

		producer.PublishOrderEvent(events.TypeOrderCancelled, &order)
		BroadcastOrder(&order)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

var errNotYourOrder = errors.New("order belongs to another user")
