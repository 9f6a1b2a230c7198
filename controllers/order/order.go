package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paymentControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/payment"
	"github.com/parthsavaliya1/VADI-BACKEND/events"
	"github.com/parthsavaliya1/VADI-BACKEND/gateway"
	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
	"github.com/parthsavaliya1/VADI-BACKEND/pricing"
)

// checkoutTimeout bounds the whole multi-table checkout transaction; on
// expiry the client gets a retryable conflict.
const checkoutTimeout = 10 * time.Second

const maxOrderNumberAttempts = 5

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
	errAddressNotFound      = errors.New("address not found")
)

// StockConflictError reports every offending line item of a failed checkout
// in one response.
type StockConflictError struct {
	Items []inventory.InsufficientStockError
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Items))
}

type PlaceOrderInput struct {
	AddressID     uint                 `json:"address_id" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	DeliverySlot  string               `json:"delivery_slot"`
	DeliveryFee   float64              `json:"delivery_fee" binding:"min=0"`
	Notes         string               `json:"notes"`
}

// GenerateOrderNumber builds a human-readable candidate like
// VD-20250901-3F2A9C71. Uniqueness is rechecked by the caller.
func GenerateOrderNumber(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("VD-%s-%s", now.Format("20060102"), token)
}

func allocateOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := GenerateOrderNumber(time.Now())
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

// POST /orders
// Converts the active cart into an Order + Payment pair: stock is
// re-validated under row locks, decremented, and the cart marked converted —
// all inside one transaction, so a failure at any step leaves nothing behind.
func PlaceOrder(db *gorm.DB, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidPaymentMethod(input.PaymentMethod) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment method"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), checkoutTimeout)
		defer cancel()

		var order models.Order
		var payment models.Payment

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Preload("Items").
				Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
				First(&cart).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEmptyCart
				}
				return err
			}
			if len(cart.Items) == 0 {
				return ErrEmptyCart
			}

			var address models.Address
			if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", input.AddressID, userID, true).
				First(&address).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errAddressNotFound
				}
				return err
			}

			// Lock every variant, then collect ALL stock conflicts before
			// failing — no partial orders, no first-failure-only report.
			var conflicts []inventory.InsufficientStockError
			for _, item := range cart.Items {
				var variant models.Variant
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&variant, item.VariantID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						conflicts = append(conflicts, inventory.InsufficientStockError{
							ProductID: item.ProductID,
							VariantID: item.VariantID,
							Requested: item.Quantity,
							Available: 0,
						})
						continue
					}
					return err
				}
				if !variant.IsActive || variant.Stock < item.Quantity {
					available := variant.Stock
					if !variant.IsActive {
						available = 0
					}
					conflicts = append(conflicts, inventory.InsufficientStockError{
						ProductID: item.ProductID,
						VariantID: item.VariantID,
						Requested: item.Quantity,
						Available: available,
					})
				}
			}
			if len(conflicts) > 0 {
				return &StockConflictError{Items: conflicts}
			}

			orderNumber, err := allocateOrderNumber(tx)
			if err != nil {
				return err
			}

			orderItems := make([]models.OrderItem, 0, len(cart.Items))
			for _, item := range cart.Items {
				orderItems = append(orderItems, models.OrderItem{
					ProductID:    item.ProductID,
					VariantID:    item.VariantID,
					Name:         item.Name,
					Image:        item.Image,
					PackSize:     item.PackSize,
					PackUnit:     item.PackUnit,
					Price:        item.Price,
					MRP:          item.MRP,
					DiscountPct:  item.DiscountPct,
					GSTPercent:   item.GSTPercent,
					TaxInclusive: item.TaxInclusive,
					Quantity:     item.Quantity,
					Subtotal:     item.Subtotal,
				})
			}

			isCod := input.PaymentMethod == models.PaymentMethodCod
			paymentStatus := models.PaymentStatusInitiated
			if isCod {
				paymentStatus = models.PaymentStatusPending
			}

			order = models.Order{
				OrderNumber:   orderNumber,
				UserID:        userID,
				CartID:        cart.ID,
				Items:         orderItems,
				TotalItems:    cart.TotalItems,
				TotalQuantity: cart.TotalQuantity,
				Subtotal:      cart.Subtotal,
				TotalDiscount: cart.TotalDiscount,
				TaxAmount:     cart.TaxAmount,
				DeliveryFee:   input.DeliveryFee,
				GrandTotal:    pricing.Round2(cart.GrandTotal + input.DeliveryFee),
				Status:        models.OrderStatusPlaced,
				PaymentMethod: input.PaymentMethod,
				PaymentStatus: paymentStatus,
				IsCod:         isCod,
				AddressID:     address.ID,
				AddressLabel:  address.Label,
				AddressLine1:  address.Line1,
				AddressLine2:  address.Line2,
				City:          address.City,
				State:         address.State,
				Pincode:       address.Pincode,
				ContactPhone:  address.Phone,
				DeliverySlot:  input.DeliverySlot,
				Notes:         input.Notes,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			payment = models.Payment{
				OrderID: order.ID,
				UserID:  userID,
				Amount:  order.GrandTotal,
				Method:  input.PaymentMethod,
				Status:  paymentStatus,
				IsCod:   isCod,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Update("payment_id", payment.ID).Error; err != nil {
				return err
			}
			order.PaymentID = payment.ID

			for _, item := range cart.Items {
				if err := inventory.Decrement(tx, item.VariantID, item.Quantity); err != nil {
					return err
				}
			}

			// Converted, not deleted: the cart stays as order provenance.
			return tx.Model(&cart).Update("status", models.CartStatusConverted).Error
		})
		if err != nil {
			respondOrderError(c, err)
			return
		}

		producer.PublishOrderEvent(events.TypeOrderPlaced, &order)
		BroadcastOrder(&order)

		data := gin.H{"order": order, "payment": payment}

		// Online methods get a hosted payment URL; a gateway hiccup here is
		// not fatal since the payment can be re-initiated later.
		if !order.IsCod {
			if res, err := gateway.Initiate(order.OrderNumber, order.GrandTotal, "", order.ContactPhone); err == nil {
				db.Model(&payment).Updates(map[string]interface{}{
					"gateway_name":     "hostedpage",
					"gateway_order_id": res.GatewayRef,
					"raw_response":     res.Raw,
				})
				data["payment_url"] = res.PaymentURL
			}
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
	}
}

// GET /orders — own orders for users, everything for admins.
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")

		if _, isAdmin := c.Get("admin_id"); !isAdmin {
			userID, ok := middleware.CurrentUserID(c)
			if !ok {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
				return
			}
			query = query.Where("user_id = ?", userID)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// GET /orders/:id — accepts a numeric id or an order number.
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var order models.Order
		if err := db.Preload("Items").
			Where("id::text = ? OR order_number = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
			return
		}

		if _, isAdmin := c.Get("admin_id"); !isAdmin {
			userID, _ := middleware.CurrentUserID(c)
			if order.UserID != userID {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your order"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}

// POST /orders/:id/verify-payment
// Confirms an online payment from the gateway callback payload.
func VerifyPayment(db *gorm.DB, producer *events.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input struct {
			GatewayPaymentID string            `json:"gateway_payment_id" binding:"required"`
			Signature        string            `json:"signature" binding:"required"`
			Fields           map[string]string `json:"fields"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}

		if !gateway.VerifySignature(input.Fields, input.Signature) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid payment signature"})
			return
		}

		var payment models.Payment
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
				return err
			}
			payment.GatewayPaymentID = input.GatewayPaymentID
			payment.Signature = input.Signature
			return paymentControllers.ApplyStatus(tx, &payment, models.PaymentStatusSuccess)
		})
		if err != nil {
			respondOrderError(c, err)
			return
		}

		order.PaymentStatus = payment.Status
		producer.PublishOrderEvent(events.TypeOrderStatus, &order)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}
