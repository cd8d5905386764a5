package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"gorm.io/gorm"
)

// CartOwner identifies who a cart belongs to: exactly one of UserID or GuestID
// is set, never both.
type CartOwner struct {
	UserID  *uint
	GuestID string
}

// UserOwner builds a CartOwner for an authenticated user.
func UserOwner(userID uint) CartOwner {
	return CartOwner{UserID: &userID}
}

// GuestOwner builds a CartOwner for a guest session.
func GuestOwner(guestID string) CartOwner {
	return CartOwner{GuestID: guestID}
}

// CartService owns cart mutation and the coin-discount applier. All pricing is
// resolved from the live catalog on every read; the cart never stores prices.
type CartService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewCartService creates a cart service backed by the given database handle.
func NewCartService(db *gorm.DB, cfg *config.Config) *CartService {
	return &CartService{DB: db, Cfg: cfg}
}

func (s *CartService) ownerScope(owner CartOwner) *gorm.DB {
	if owner.UserID != nil {
		return s.DB.Where("user_id = ?", *owner.UserID)
	}
	return s.DB.Where("user_id IS NULL AND guest_id = ?", owner.GuestID)
}

// GetCart loads the owner's cart with items and live products, or nil when the
// owner has no cart yet.
func (s *CartService) GetCart(owner CartOwner) (*models.Cart, error) {
	var cart models.Cart
	err := s.ownerScope(owner).Preload("Items.Product.Packs").First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) getOrCreateCart(owner CartOwner) (*models.Cart, error) {
	cart, err := s.GetCart(owner)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{UserID: owner.UserID, GuestID: owner.GuestID}
	if err := s.DB.Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts quantity units of a product (optionally a specific pack) into
// the owner's cart, merging with an existing line for the same product+pack.
func (s *CartService) AddItem(owner CartOwner, productID uint, quantity int, packLabel string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, utils.BadRequestError("Quantity must be at least 1", nil)
	}

	var product models.Product
	if err := s.DB.Preload("Packs").First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("Product not found", nil)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.BadRequestError("Product is not available", nil)
	}
	if packLabel != "" && !hasPack(product, packLabel) {
		return nil, utils.BadRequestError(fmt.Sprintf("Product %q has no pack %q", product.Name, packLabel), nil)
	}

	cart, err := s.getOrCreateCart(owner)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.DB.Where("cart_id = ? AND product_id = ? AND pack_label = ?", cart.ID, productID, packLabel).
		First(&item).Error
	switch err {
	case nil:
		item.Quantity += quantity
		if err := s.DB.Save(&item).Error; err != nil {
			return nil, err
		}
	case gorm.ErrRecordNotFound:
		item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity, PackLabel: packLabel}
		if err := s.DB.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.GetCart(owner)
}

// UpdateItem sets the quantity of a cart line; zero removes it.
func (s *CartService) UpdateItem(owner CartOwner, productID uint, quantity int, packLabel string) (*models.Cart, error) {
	if quantity < 0 {
		return nil, utils.BadRequestError("Quantity cannot be negative", nil)
	}

	cart, err := s.GetCart(owner)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, utils.NotFoundError("Cart is empty", nil)
	}

	query := s.DB.Where("cart_id = ? AND product_id = ? AND pack_label = ?", cart.ID, productID, packLabel)
	if quantity == 0 {
		if err := query.Delete(&models.CartItem{}).Error; err != nil {
			return nil, err
		}
	} else {
		res := query.Model(&models.CartItem{}).Update("quantity", quantity)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, utils.NotFoundError("Item not in cart", nil)
		}
	}

	return s.GetCart(owner)
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(owner CartOwner, productID uint, packLabel string) (*models.Cart, error) {
	return s.UpdateItem(owner, productID, 0, packLabel)
}

// ClearCart drops the owner's cart entirely.
func (s *CartService) ClearCart(owner CartOwner) error {
	cart, err := s.GetCart(owner)
	if err != nil || cart == nil {
		return err
	}
	return deleteCart(s.DB, cart.ID)
}

func deleteCart(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Cart{}, cartID).Error
}

// CartLine is one displayable row of the cart with catalog-resolved pricing.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	PackLabel string  `json:"pack_label"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	InStock   bool    `json:"in_stock"`
}

// CartDetails is the server-computed view of a cart: lines priced from the
// live catalog plus the coin discount currently stored on the cart.
type CartDetails struct {
	Lines        []CartLine `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	AppliedCoins int64      `json:"applied_coins"`
	CoinDiscount float64    `json:"coin_discount"`
	FinalTotal   float64    `json:"final_total"`
}

// Details prices the cart from the live catalog. Items whose product vanished
// or went inactive contribute nothing; they are kept out of the lines rather
// than failing the whole read.
func (s *CartService) Details(cart *models.Cart) *CartDetails {
	details := &CartDetails{}
	if cart == nil {
		return details
	}

	for _, item := range cart.Items {
		if item.Product.ID == 0 || !item.Product.IsActive {
			utils.LogDebug("Skipping cart item for unavailable product %d", item.ProductID)
			continue
		}

		unitPrice, stock := cartItemPricing(item.Product, item.PackLabel)
		if unitPrice <= 0 {
			continue
		}

		lineTotal := unitPrice * float64(item.Quantity)
		details.Lines = append(details.Lines, CartLine{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Image:     item.Product.ImageURL,
			PackLabel: item.PackLabel,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			InStock:   stock >= item.Quantity,
		})
		details.Subtotal += lineTotal
	}

	details.AppliedCoins = cart.AppliedCoins
	details.CoinDiscount = cart.CoinDiscount
	details.FinalTotal = math.Max(0, details.Subtotal-details.CoinDiscount)
	return details
}

// cartItemPricing resolves the unit price and available stock for a cart line:
// exact pack label match first, else the product's first pack, else the flat
// product price.
func cartItemPricing(product models.Product, packLabel string) (float64, int) {
	if len(product.Packs) > 0 {
		for _, pack := range product.Packs {
			if strings.EqualFold(pack.Label, packLabel) {
				return pack.EffectivePrice(), pack.Stock
			}
		}
		first := product.Packs[0]
		return first.EffectivePrice(), first.Stock
	}
	if product.DiscountPrice > 0 {
		return product.DiscountPrice, product.Stock
	}
	return product.Price, product.Stock
}

func hasPack(product models.Product, label string) bool {
	for _, pack := range product.Packs {
		if strings.EqualFold(pack.Label, label) {
			return true
		}
	}
	return false
}

// Coin apply actions
const (
	CoinActionApply  = "apply"
	CoinActionRemove = "remove"
)

// CoinApplyResult is returned by ApplyCoins.
type CoinApplyResult struct {
	Subtotal       float64 `json:"subtotal"`
	CoinsApplied   int64   `json:"coins_applied"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalTotal     float64 `json:"final_total"`
}

// ApplyCoins computes and stores the coin discount on the user's cart. The
// discount is capped server-side at MaxDiscountPercent of the live subtotal
// and at the wallet balance; a client-requested amount can only lower the
// result, never raise it. The stored amount is re-validated and re-capped
// again at order creation, so a stale cart can never over-redeem.
func (s *CartService) ApplyCoins(userID uint, action string, requestedCoins int64) (*CoinApplyResult, error) {
	cart, err := s.GetCart(UserOwner(userID))
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, utils.BadRequestError("Your cart is empty", nil)
	}

	if action == CoinActionRemove {
		if err := s.DB.Model(cart).UpdateColumns(map[string]interface{}{
			"applied_coins": 0,
			"coin_discount": 0,
		}).Error; err != nil {
			return nil, err
		}
		details := s.Details(cart)
		return &CoinApplyResult{
			Subtotal:   details.Subtotal,
			FinalTotal: details.Subtotal,
		}, nil
	}

	details := s.Details(cart)
	if details.Subtotal <= 0 {
		return &CoinApplyResult{}, nil
	}

	wallet, err := GetOrCreateWallet(s.DB, userID)
	if err != nil {
		return nil, err
	}

	maxDiscount := math.Floor(details.Subtotal * s.Cfg.MaxDiscountPercent / 100)
	maxCoinsUsable := int64(maxDiscount) * utils.CoinsPerCurrencyUnit

	coinsToUse := wallet.Balance
	if maxCoinsUsable < coinsToUse {
		coinsToUse = maxCoinsUsable
	}
	if requestedCoins > 0 && requestedCoins < coinsToUse {
		coinsToUse = requestedCoins
	}

	discount := float64(coinsToUse) / utils.CoinsPerCurrencyUnit
	if err := s.DB.Model(cart).UpdateColumns(map[string]interface{}{
		"applied_coins": coinsToUse,
		"coin_discount": discount,
	}).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Applied %d coins (%.2f off) for user %d, subtotal %.2f", coinsToUse, discount, userID, details.Subtotal)

	return &CoinApplyResult{
		Subtotal:       details.Subtotal,
		CoinsApplied:   coinsToUse,
		DiscountAmount: discount,
		FinalTotal:     math.Max(0, details.Subtotal-discount),
	}, nil
}

// MergeGuestCart folds a guest cart into the user's cart at login. The guest
// cart is deleted either way.
func (s *CartService) MergeGuestCart(guestID string, userID uint) error {
	guestCart, err := s.GetCart(GuestOwner(guestID))
	if err != nil || guestCart == nil {
		return err
	}

	for _, item := range guestCart.Items {
		if _, err := s.AddItem(UserOwner(userID), item.ProductID, item.Quantity, item.PackLabel); err != nil {
			utils.LogError("Failed to merge guest cart item %d for user %d: %v", item.ProductID, userID, err)
		}
	}
	return deleteCart(s.DB, guestCart.ID)
}
