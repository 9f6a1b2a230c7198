package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parthsavaliya1/VADI-BACKEND/pricing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		items []pricing.LineItem
		want  pricing.Totals
	}{
		{
			name:  "empty_cart",
			items: nil,
			want:  pricing.Totals{},
		},
		{
			name: "exclusive_tax_added_on_top",
			items: []pricing.LineItem{
				{Price: 100, Quantity: 2, MRP: 120, DiscountPct: 10, GSTPercent: 5, TaxInclusive: false},
			},
			want: pricing.Totals{
				TotalItems:    1,
				TotalQuantity: 2,
				Subtotal:      200.00,
				TotalDiscount: 40.00,
				TaxAmount:     10.00,
				GrandTotal:    210.00,
			},
		},
		{
			name: "inclusive_tax_not_added_again",
			items: []pricing.LineItem{
				{Price: 100, Quantity: 2, MRP: 120, DiscountPct: 10, GSTPercent: 5, TaxInclusive: true},
			},
			want: pricing.Totals{
				TotalItems:    1,
				TotalQuantity: 2,
				Subtotal:      200.00,
				TotalDiscount: 40.00,
				TaxAmount:     9.52, // 2 × (100 − 100/1.05)
				GrandTotal:    200.00,
			},
		},
		{
			name: "mixed_tax_modes_use_exclusive_rule",
			items: []pricing.LineItem{
				{Price: 50, Quantity: 1, GSTPercent: 12, TaxInclusive: true},
				{Price: 30, Quantity: 1, GSTPercent: 5, TaxInclusive: false},
			},
			want: pricing.Totals{
				TotalItems:    2,
				TotalQuantity: 2,
				Subtotal:      80.00,
				TotalDiscount: 0,
				TaxAmount:     6.86, // 5.36 inclusive + 1.50 exclusive
				GrandTotal:    86.86,
			},
		},
		{
			name: "no_discount_without_discount_pct",
			items: []pricing.LineItem{
				{Price: 80, Quantity: 3, MRP: 100, DiscountPct: 0},
			},
			want: pricing.Totals{
				TotalItems:    1,
				TotalQuantity: 3,
				Subtotal:      240.00,
				TotalDiscount: 0,
				GrandTotal:    240.00,
			},
		},
		{
			name: "zero_quantity_lines_skipped",
			items: []pricing.LineItem{
				{Price: 10, Quantity: 0},
				{Price: 25.5, Quantity: 2},
			},
			want: pricing.Totals{
				TotalItems:    1,
				TotalQuantity: 2,
				Subtotal:      51.00,
				GrandTotal:    51.00,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Compute(tt.items)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Recomputing totals from an unchanged item list must be a no-op.
func TestComputeIdempotent(t *testing.T) {
	items := []pricing.LineItem{
		{Price: 33.33, Quantity: 3, MRP: 40, DiscountPct: 15, GSTPercent: 18, TaxInclusive: false},
		{Price: 12.5, Quantity: 1, GSTPercent: 5, TaxInclusive: true},
	}
	first := pricing.Compute(items)
	second := pricing.Compute(items)
	assert.Equal(t, first, second)
}

func TestRound2HalfUp(t *testing.T) {
	assert.Equal(t, 0.13, pricing.Round2(0.125))
	assert.Equal(t, 0.38, pricing.Round2(0.375))
	assert.Equal(t, 0.12, pricing.Round2(0.124))
	assert.Equal(t, 100.0, pricing.Round2(100.0))
}

func TestLineSubtotal(t *testing.T) {
	assert.Equal(t, 66.66, pricing.LineSubtotal(33.33, 2))
	assert.Equal(t, 0.0, pricing.LineSubtotal(9.99, 0))
}
