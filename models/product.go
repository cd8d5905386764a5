package models

import (
	"gorm.io/gorm"
)

// Product represents a product in the catalog. A product is priced either flat
// (Price/DiscountPrice/Stock on the product itself) or through its Packs, each
// carrying its own price and stock. Exactly one pack is flagged as default when
// packs exist; that invariant is enforced by the catalog admin surface.
type Product struct {
	gorm.Model
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	CategoryID  uint     `json:"category_id"`
	Category    Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Stock         int     `json:"stock"`
	Packs         []Pack  `json:"packs" gorm:"foreignKey:ProductID"`

	ImageURL string `json:"image_url"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Nutrition facts, per serving. Used by the nutrition report PDF.
	ServingSize string  `json:"serving_size"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Ingredients string  `json:"ingredients"`
}

// Pack is a purchasable variant of a product (e.g. a weight size) with its own
// price, discount price and stock.
type Pack struct {
	gorm.Model
	ProductID     uint    `json:"product_id" gorm:"index"`
	Label         string  `json:"label"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Stock         int     `json:"stock"`
	IsDefault     bool    `json:"is_default" gorm:"default:false"`
}

// EffectivePrice returns the unit price a buyer pays for this pack.
func (p Pack) EffectivePrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}
