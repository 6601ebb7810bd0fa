package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices render as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Title              string              `gorm:"size:255;not null" json:"title"`
	Description        string              `gorm:"type:text;not null" json:"description"`
	Price              decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock              int                 `gorm:"not null;default:0" json:"stock"`
	Category           *string             `gorm:"size:255;index" json:"category"`
	Image              *string             `gorm:"size:255" json:"image"`
	Slug               *string             `gorm:"size:255;index" json:"slug"`
	Brand              *string             `gorm:"size:255" json:"brand"`
	Color              *string             `gorm:"size:255" json:"color"`
	Size               *string             `gorm:"size:255" json:"size"`
	DiscountPercentage decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"discount_percentage"`
	DiscountedPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discounted_price"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	// ImageURL is the public URL of Image, filled in by the catalog service.
	ImageURL *string `gorm:"-" json:"image_url"`
}

// DiscountedPrice derives the sale price: absent when there is no discount
// or it is zero, otherwise price × (1 − discount/100) rounded half away from
// zero to two places.
func DiscountedPrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.NullDecimal {
	if !discount.Valid || discount.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	factor := decimal.NewFromInt(1).Sub(discount.Decimal.Div(hundred))
	return decimal.NewNullDecimal(price.Mul(factor).Round(2))
}

// Reprice recomputes DiscountedPrice from Price and DiscountPercentage.
func (p *Product) Reprice() {
	p.DiscountedPrice = DiscountedPrice(p.Price, p.DiscountPercentage)
}
