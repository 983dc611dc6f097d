package order

import "github.com/shopspring/decimal"

// Subtotal returns the sum of price * quantity across all items.
func Subtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// Total applies the customer tier to the subtotal of items. The result is
// exact; no rounding is performed.
func Total(t CustomerType, items []OrderItem) decimal.Decimal {
	return Subtotal(items).Mul(t.Multiplier())
}
