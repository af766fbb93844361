// Package pricing holds the single effective-price computation shared by the
// catalog, the cart, checkout and the seller dashboard.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Effective returns nominal - nominal*discountPercent/100 as a decimal.
// The discount is not clamped; entry points validate it.
func Effective(nominal, discountPercent float64) decimal.Decimal {
	n := decimal.NewFromFloat(nominal)
	return n.Sub(n.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred))
}

// EffectivePrice is Effective converted back to float64.
func EffectivePrice(nominal, discountPercent float64) float64 {
	return Effective(nominal, discountPercent).InexactFloat64()
}

// LineTotal is the effective price multiplied by quantity.
func LineTotal(price, discountPercent float64, quantity int) decimal.Decimal {
	return Effective(price, discountPercent).Mul(decimal.NewFromInt(int64(quantity)))
}

// Line is anything that can be totalled.
type Line interface {
	LinePrice() float64
	LineDiscount() float64
	LineQuantity() int
}

// Total sums LineTotal over lines. An empty input totals to zero.
func Total[L Line](lines []L) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l.LinePrice(), l.LineDiscount(), l.LineQuantity()))
	}
	return sum.InexactFloat64()
}

// Format renders an amount with two decimal places.
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
