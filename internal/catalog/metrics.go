package catalog

import (
	"kriya/internal/models"
	"kriya/internal/pricing"

	"github.com/shopspring/decimal"
)

// Metrics summarises a seller's catalog for the dashboard cards.
type Metrics struct {
	TotalProducts int     `json:"total_products"`
	TotalValue    float64 `json:"total_value"`
	Categories    int     `json:"categories"`
}

// SellerMetrics counts products, sums one unit of each at its effective price
// and counts distinct categories.
func SellerMetrics(products []models.Product) Metrics {
	value := decimal.Zero
	categories := make(map[string]struct{})
	for _, p := range products {
		value = value.Add(pricing.Effective(p.Price, p.Discount))
		categories[p.Category] = struct{}{}
	}
	return Metrics{
		TotalProducts: len(products),
		TotalValue:    value.InexactFloat64(),
		Categories:    len(categories),
	}
}
