// Package catalog turns a flat product list into the views shown to buyers and
// sellers. Everything here is pure; callers re-run it whenever the products or
// the query change.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"kriya/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortDiscount  SortKey = "discount"
)

// Default price bounds applied when a query leaves them unset.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// ParseSortKey accepts the sort keys understood by View. The empty string
// selects SortName.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortName, nil
	case SortName, SortPriceLow, SortPriceHigh, SortDiscount:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Query selects and orders products. MinPrice and MaxPrice bound the
// effective price inclusively.
type Query struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     SortKey
}

// DefaultQuery matches every category over the default price range.
func DefaultQuery() Query {
	return Query{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice, Sort: SortName}
}

func (q Query) keep(p models.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	price := p.EffectivePrice()
	return price >= q.MinPrice && price <= q.MaxPrice
}

// View filters products by q and sorts the result stably. The input is not
// modified. The result is never nil, so an empty view is distinguishable from
// products that have not been loaded.
func View(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.keep(p) {
			out = append(out, p)
		}
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(a.EffectivePrice(), b.EffectivePrice())
		})
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(b.EffectivePrice(), a.EffectivePrice())
		})
	case SortDiscount:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(b.Discount, a.Discount)
		})
	default:
		// Collators keep internal buffers and are not safe to share.
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	}
	return out
}

// DefaultSimilarLimit is how many related products a detail page shows.
const DefaultSimilarLimit = 4

// Similar returns up to limit products sharing product's category, excluding
// product itself, in input order.
func Similar(products []models.Product, product models.Product, limit int) []models.Product {
	if limit <= 0 {
		return []models.Product{}
	}
	out := make([]models.Product, 0, min(limit, len(products)))
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.Category == product.Category && p.ID != product.ID {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the first n products.
func Featured(products []models.Product, n int) []models.Product {
	n = max(0, min(n, len(products)))
	out := make([]models.Product, n)
	copy(out, products[:n])
	return out
}

// Listing states on the seller dashboard.
const (
	StatusAll    = "all"
	StatusActive = "active" // priced
	StatusDraft  = "draft"  // price zero
)

// SellerSearch filters a seller's products by a case-insensitive name
// substring and listing status.
func SellerSearch(products []models.Product, term, status string) []models.Product {
	term = strings.ToLower(term)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		switch status {
		case StatusActive:
			if p.Price <= 0 {
				continue
			}
		case StatusDraft:
			if p.Price != 0 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
