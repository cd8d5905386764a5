package models

import (
	"gorm.io/gorm"
)

// Cart holds the mutable pre-order state for exactly one owner: either an
// authenticated user (UserID set) or a guest session (GuestID set), never both.
// AppliedCoins is the number of loyalty coins earmarked for discount and
// CoinDiscount the derived currency amount (10 coins = 1 currency unit).
type Cart struct {
	gorm.Model
	UserID       *uint      `json:"user_id" gorm:"index"`
	GuestID      string     `json:"guest_id" gorm:"index"`
	AppliedCoins int64      `json:"applied_coins"`
	CoinDiscount float64    `json:"coin_discount"`
	Items        []CartItem `json:"items" gorm:"foreignKey:CartID"`
}

// CartItem references a live product; prices are never stored here, they are
// resolved from the catalog on every read.
type CartItem struct {
	gorm.Model
	CartID    uint    `json:"cart_id" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int     `json:"quantity"`
	PackLabel string  `json:"pack_label"`
}

// Wishlist represents a user's wishlist entry
type Wishlist struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}
