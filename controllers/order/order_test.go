package orderControllers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{"placed to confirmed", models.OrderStatusPlaced, models.OrderStatusConfirmed, true},
		{"placed to cancelled", models.OrderStatusPlaced, models.OrderStatusCancelled, true},
		{"placed cannot skip to packed", models.OrderStatusPlaced, models.OrderStatusPacked, false},
		{"placed cannot jump to delivered", models.OrderStatusPlaced, models.OrderStatusDelivered, false},
		{"confirmed to packed", models.OrderStatusConfirmed, models.OrderStatusPacked, true},
		{"confirmed to cancelled", models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{"packed to out for delivery", models.OrderStatusPacked, models.OrderStatusOutForDelivery, true},
		{"packed to cancelled", models.OrderStatusPacked, models.OrderStatusCancelled, true},
		{"out for delivery to delivered", models.OrderStatusOutForDelivery, models.OrderStatusDelivered, true},
		{"no cancel once out for delivery", models.OrderStatusOutForDelivery, models.OrderStatusCancelled, false},
		{"delivered to returned", models.OrderStatusDelivered, models.OrderStatusReturned, true},
		{"delivered cannot cancel", models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{"cancelled is frozen", models.OrderStatusCancelled, models.OrderStatusPlaced, false},
		{"returned is frozen", models.OrderStatusReturned, models.OrderStatusDelivered, false},
		{"no backwards moves", models.OrderStatusPacked, models.OrderStatusConfirmed, false},
		{"no self transition", models.OrderStatusPlaced, models.OrderStatusPlaced, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^VD-20250901-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := GenerateOrderNumber(now)
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "order numbers should not repeat: %s", number)
		seen[number] = true
	}
}

func TestStockConflictError(t *testing.T) {
	err := &StockConflictError{Items: []inventory.InsufficientStockError{
		{ProductID: 1, VariantID: 10, Requested: 5, Available: 2},
		{ProductID: 2, VariantID: 20, Requested: 1, Available: 0},
	}}

	assert.Equal(t, "insufficient stock for 2 item(s)", err.Error())
	assert.Len(t, err.Items, 2)
}
