package pricing_test

import (
	"testing"

	"kriya/internal/pricing"

	"github.com/stretchr/testify/assert"
)

type line struct {
	price    float64
	discount float64
	qty      int
}

func (l line) LinePrice() float64    { return l.price }
func (l line) LineDiscount() float64 { return l.discount }
func (l line) LineQuantity() int     { return l.qty }

func TestEffectivePrice_Bounds(t *testing.T) {
	nominals := []float64{0, 0.01, 1, 14.99, 99.99, 500, 1000, 2000, 123456.78}
	discounts := []float64{0, 1, 10, 15, 33.3, 50, 99, 100}

	for _, n := range nominals {
		assert.Equal(t, n, pricing.EffectivePrice(n, 0), "zero discount keeps nominal %v", n)
		assert.Equal(t, 0.0, pricing.EffectivePrice(n, 100), "full discount on %v", n)
		for _, d := range discounts {
			got := pricing.EffectivePrice(n, d)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, n)
		}
	}
}

func TestEffectivePrice_Values(t *testing.T) {
	assert.Equal(t, 1800.0, pricing.EffectivePrice(2000, 10))
	assert.Equal(t, 250.0, pricing.EffectivePrice(500, 50))
	assert.Equal(t, 79.992, pricing.EffectivePrice(99.99, 20))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 0.0, pricing.Total([]line{}))
	assert.Equal(t, 3600.0, pricing.Total([]line{{price: 2000, discount: 10, qty: 2}}))
	assert.Equal(t, 3850.0, pricing.Total([]line{
		{price: 2000, discount: 10, qty: 2},
		{price: 500, discount: 50, qty: 1},
	}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "3600.00", pricing.Format(3600))
	assert.Equal(t, "79.99", pricing.Format(pricing.EffectivePrice(99.99, 20)))
}
