package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paymentControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/payment"
	"github.com/parthsavaliya1/VADI-BACKEND/events"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

// statusTransitions is the single source of truth for the order lifecycle.
// Returned is reachable only from delivered; cancelled and returned are
// frozen.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPlaced:         {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:      {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:         {models.OrderStatusOutForDelivery, models.OrderStatusCancelled},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered},
	models.OrderStatusDelivered:      {models.OrderStatusReturned},
	models.OrderStatusCancelled:      {},
	models.OrderStatusReturned:       {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type UpdateStatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// PUT /orders/:id/status (admin)
// Moves the order along the lifecycle. Marking a COD order delivered also
// settles its payment as collected.
func UpdateOrderStatus(db *gorm.DB, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if _, known := statusTransitions[input.Status]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown order status"})
			return
		}
		// Cancellation restores stock and voids the payment, which the plain
		// status update must not bypass.
		if input.Status == models.OrderStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Use the cancel endpoint to cancel an order"})
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&order, c.Param("id")).Error; err != nil {
				return err
			}

			if !CanTransition(order.Status, input.Status) {
				return &invalidTransitionError{From: order.Status, To: input.Status}
			}

			order.Status = input.Status
			if input.Status == models.OrderStatusDelivered {
				now := time.Now()
				order.DeliveredAt = &now

				if order.IsCod {
					var payment models.Payment
					if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
						Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
						return err
					}
					if err := paymentControllers.MarkCodCollected(tx, &payment); err != nil {
						return err
					}
					order.PaymentStatus = payment.Status
				}
			}
			return tx.Save(&order).Error
		})
		if err != nil {
			respondOrderError(c, err)
			return
		}

		producer.PublishOrderEvent(events.TypeOrderStatus, &order)
		BroadcastOrder(&order)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

type invalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *invalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

func respondOrderError(c *gin.Context, err error) {
	var stockErr *StockConflictError
	var transitionErr *invalidTransitionError
	switch {
	case errors.As(err, &stockErr):
		details := make([]gin.H, 0, len(stockErr.Items))
		for _, item := range stockErr.Items {
			details = append(details, gin.H{
				"product_id": item.ProductID,
				"variant_id": item.VariantID,
				"requested":  item.Requested,
				"available":  item.Available,
			})
		}
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": stockErr.Error(), "errors": details})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": transitionErr.Error()})
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cart is empty"})
	case errors.Is(err, errAddressNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Delivery address not found"})
	case errors.Is(err, ErrOrderNumberExhausted):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Could not place order, please retry"})
	case errors.Is(err, paymentControllers.ErrInvalidPaymentTransition):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
	}
}
