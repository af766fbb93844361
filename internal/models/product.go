package models

import (
	"time"

	"kriya/internal/pricing"
)

// Categories is the fixed set a product may belong to.
var Categories = []string{"Handicrafts", "Textiles", "Pottery", "Jewelry", "Art", "Food", "Furniture", "Decor"}

// Product represents a seller's listing in the store.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Description string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Price       float64   `json:"price" gorm:"not null" validate:"gt=0"`
	Discount    float64   `json:"discount" validate:"gte=0,lte=100"`
	Category    string    `json:"category" gorm:"type:varchar(50);index" validate:"required,oneof=Handicrafts Textiles Pottery Jewelry Art Food Furniture Decor"`
	Image       string    `json:"image" validate:"omitempty,url"`
	SellerID    string    `json:"seller_id" gorm:"type:varchar(36);index;not null"`
	SellerName  string    `json:"seller_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EffectivePrice is the price after discount.
func (p Product) EffectivePrice() float64 {
	return pricing.EffectivePrice(p.Price, p.Discount)
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Handicrafts Textiles Pottery Jewelry Art Food Furniture Decor"`
	Image       *string  `json:"image" validate:"omitempty,url"`
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Discount == nil && p.Category == nil && p.Image == nil
}

// Apply copies the set fields onto product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Discount != nil {
		product.Discount = *p.Discount
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
}
