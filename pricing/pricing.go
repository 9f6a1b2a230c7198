package pricing

import "math"

// LineItem is the slice of a cart/order line the calculator needs.
type LineItem struct {
	Price        float64
	MRP          float64
	DiscountPct  float64
	GSTPercent   float64
	TaxInclusive bool
	Quantity     int
}

// Totals are the denormalized aggregates stored on carts and orders.
type Totals struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TaxAmount     float64 `json:"tax_amount"`
	GrandTotal    float64 `json:"grand_total"`
}

// Round2 rounds to 2 decimal places, half-up at the cent.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// LineSubtotal is price × quantity rounded to the cent.
func LineSubtotal(price float64, quantity int) float64 {
	return Round2(price * float64(quantity))
}

// Compute derives all aggregate totals from the given line items.
//
// Grand total rule: if any item carries exclusive tax, grandTotal is
// subtotal + taxAmount; for fully tax-inclusive carts the tax is already
// inside the subtotal and is not added again.
func Compute(items []LineItem) Totals {
	var t Totals
	anyExclusive := false

	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		t.TotalItems++
		t.TotalQuantity += it.Quantity
		t.Subtotal += it.Price * float64(it.Quantity)

		if it.MRP > 0 && it.DiscountPct > 0 {
			t.TotalDiscount += (it.MRP - it.Price) * float64(it.Quantity)
		}

		if it.GSTPercent > 0 {
			var perUnit float64
			if it.TaxInclusive {
				perUnit = it.Price - it.Price/(1+it.GSTPercent/100)
			} else {
				perUnit = it.Price * it.GSTPercent / 100
				anyExclusive = true
			}
			t.TaxAmount += perUnit * float64(it.Quantity)
		}
	}

	t.Subtotal = Round2(t.Subtotal)
	t.TotalDiscount = Round2(t.TotalDiscount)
	t.TaxAmount = Round2(t.TaxAmount)

	if anyExclusive {
		t.GrandTotal = Round2(t.Subtotal + t.TaxAmount)
	} else {
		t.GrandTotal = t.Subtotal
	}
	return t
}
