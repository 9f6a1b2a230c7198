package cartControllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func TestDiscountPct(t *testing.T) {
	tests := []struct {
		name  string
		mrp   float64
		price float64
		want  float64
	}{
		{"quarter off", 100, 75, 25},
		{"no mrp means no discount", 0, 50, 0},
		{"price above mrp", 100, 120, 0},
		{"price equals mrp", 100, 100, 0},
		{"rounds to two decimals", 90, 60, 33.33},
		{"tiny discount", 100, 99.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPct(tt.mrp, tt.price))
		})
	}
}

func TestSnapshotItem(t *testing.T) {
	product := &models.Product{
		ID:    7,
		Name:  "Toor Dal",
		Image: "/uploads/toor-dal.jpg",
	}
	variant := &models.Variant{
		ID:        21,
		ProductID: 7,
		PackSize:  500,
		PackUnit:  "g",
		MRP:       120,
		Price:     96,
		Stock:     40,
	}

	item := SnapshotItem(3, product, variant, 2)

	assert.Equal(t, uint(3), item.CartID)
	assert.Equal(t, uint(7), item.ProductID)
	assert.Equal(t, uint(21), item.VariantID)
	assert.Equal(t, "Toor Dal", item.Name)
	assert.Equal(t, 500.0, item.PackSize)
	assert.Equal(t, "g", item.PackUnit)
	assert.Equal(t, 96.0, item.Price)
	assert.Equal(t, 120.0, item.MRP)
	assert.Equal(t, 20.0, item.DiscountPct)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 192.0, item.Subtotal)
	assert.False(t, item.AddedAt.IsZero())
}

func TestApplyTotals(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{
		{Price: 50, MRP: 60, DiscountPct: 16.67, Quantity: 2, TaxInclusive: true},
		{Price: 30, Quantity: 1, TaxInclusive: true},
	}}

	ApplyTotals(cart)

	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.Equal(t, 130.0, cart.Subtotal)
	assert.Equal(t, 20.0, cart.TotalDiscount)
	assert.Equal(t, 130.0, cart.GrandTotal)
}

func TestApplyTotalsEmptyCart(t *testing.T) {
	cart := &models.Cart{Items: nil, Subtotal: 99, GrandTotal: 99, TotalItems: 4}

	ApplyTotals(cart)

	assert.Zero(t, cart.TotalItems)
	assert.Zero(t, cart.TotalQuantity)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.GrandTotal)
}

func TestLineItems(t *testing.T) {
	items := []models.CartItem{
		{Price: 10, MRP: 12, DiscountPct: 16.67, GSTPercent: 5, TaxInclusive: false, Quantity: 3},
	}

	lines := LineItems(items)

	assert.Len(t, lines, 1)
	assert.Equal(t, 10.0, lines[0].Price)
	assert.Equal(t, 12.0, lines[0].MRP)
	assert.Equal(t, 5.0, lines[0].GSTPercent)
	assert.False(t, lines[0].TaxInclusive)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestResolveVariant(t *testing.T) {
	product := &models.Product{
		ID: 7,
		Variants: []models.Variant{
			{ID: 1, IsActive: true},
			{ID: 2, IsDefault: true, IsActive: true},
			{ID: 3, IsActive: false},
		},
	}

	t.Run("zero id picks the default pack", func(t *testing.T) {
		variant, errMsg := resolveVariant(product, 0)
		assert.Empty(t, errMsg)
		assert.Equal(t, uint(2), variant.ID)
	})

	t.Run("explicit id wins over the default", func(t *testing.T) {
		variant, errMsg := resolveVariant(product, 1)
		assert.Empty(t, errMsg)
		assert.Equal(t, uint(1), variant.ID)
	})

	t.Run("inactive variant is rejected", func(t *testing.T) {
		variant, errMsg := resolveVariant(product, 3)
		assert.Nil(t, variant)
		assert.Equal(t, "Variant is not available", errMsg)
	})

	t.Run("unknown variant", func(t *testing.T) {
		variant, errMsg := resolveVariant(product, 9)
		assert.Nil(t, variant)
		assert.Equal(t, "Variant does not exist", errMsg)
	})

	t.Run("product without variants", func(t *testing.T) {
		variant, errMsg := resolveVariant(&models.Product{ID: 8}, 0)
		assert.Nil(t, variant)
		assert.Equal(t, "Product has no variants", errMsg)
	})
}

func TestRespondCartErrorDuplicateCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondCartError(c, gorm.ErrDuplicatedKey)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
