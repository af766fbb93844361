package models

import (
	"time"

	"kriya/internal/pricing"

	"github.com/google/uuid"
)

// CartItem is one line of a cart. Product fields are a snapshot taken when the
// product was first added and are not kept in sync with the catalog.
type CartItem struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Discount   float64 `json:"discount"`
	Image      string  `json:"image"`
	Quantity   int     `json:"quantity"`
	SellerID   string  `json:"seller_id"`
	SellerName string  `json:"seller_name"`
}

func (i CartItem) LinePrice() float64    { return i.Price }
func (i CartItem) LineDiscount() float64 { return i.Discount }
func (i CartItem) LineQuantity() int     { return i.Quantity }

// SnapshotOf builds the line item snapshot for product.
func SnapshotOf(p Product) CartItem {
	return CartItem{
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Discount:   p.Discount,
		Image:      p.Image,
		SellerID:   p.SellerID,
		SellerName: p.SellerName,
	}
}

// Cart is the per-owner cart document. Version increases on every save and
// guards conditional writes.
type Cart struct {
	OwnerID   string     `json:"owner_id" gorm:"primaryKey;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"type:text;serializer:json"`
	Version   int64      `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MaxLineQuantity is the most units a single cart line may hold.
const MaxLineQuantity = 10000

// NewCart returns an empty cart for owner.
func NewCart(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID, Items: []CartItem{}}
}

// Add merges quantity of the snapshot's product into the cart. An existing line
// for the same product is incremented, otherwise a new line with a fresh ID is
// appended. The affected line is returned.
func (c *Cart) Add(snapshot CartItem, quantity int) CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == snapshot.ProductID {
			c.Items[i].Quantity += quantity
			return c.Items[i]
		}
	}
	snapshot.ID = uuid.New().String()
	snapshot.Quantity = quantity
	c.Items = append(c.Items, snapshot)
	return snapshot
}

// QuantityOf is the quantity held for productID, 0 when there is no line.
func (c *Cart) QuantityOf(productID string) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// SetQuantity overwrites the quantity of line itemID, removing it when
// quantity <= 0. It returns false if no such line exists.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		return true
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// TotalAmount sums the discounted line totals.
func (c *Cart) TotalAmount() float64 {
	return pricing.Total(c.Items)
}

// Snapshot returns a copy of the lines.
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Subtract takes ordered quantities out of the cart, matching lines by
// product. Lines that reach zero are removed. Subtracting a snapshot of the
// whole cart empties it.
func (c *Cart) Subtract(ordered []CartItem) {
	taken := make(map[string]int, len(ordered))
	for _, item := range ordered {
		taken[item.ProductID] += item.Quantity
	}
	kept := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		item.Quantity -= taken[item.ProductID]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}
