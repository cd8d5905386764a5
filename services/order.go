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

// OrderService assembles immutable orders from carts and owns order queries
// and admin status transitions. Order creation is the highest-risk path in the
// system: coin redemption, order insert and cart deletion commit or roll back
// together.
type OrderService struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier *Notifier
}

// NewOrderService creates an order service backed by the given database handle.
func NewOrderService(db *gorm.DB, cfg *config.Config, notifier *Notifier) *OrderService {
	return &OrderService{DB: db, Cfg: cfg, Notifier: notifier}
}

// resolveActivePack picks the pack a checkout line refers to: exact label
// match, else the default pack, else the first pack. ok is false for
// flat-priced products.
func resolveActivePack(product models.Product, label string) (models.Pack, bool) {
	if len(product.Packs) == 0 {
		return models.Pack{}, false
	}
	for _, pack := range product.Packs {
		if strings.EqualFold(pack.Label, label) {
			return pack, true
		}
	}
	for _, pack := range product.Packs {
		if pack.IsDefault {
			return pack, true
		}
	}
	return product.Packs[0], true
}

// CreateOrder turns the user's cart plus a shipping address into an order:
// price/stock snapshot from the live catalog, independent re-derivation of the
// coin cap, atomic wallet decrement, order insert and cart deletion in one
// transaction. Stock is not touched here; settlement deducts it exactly once.
func (s *OrderService) CreateOrder(userID uint, addressID uint) (*models.Order, error) {
	var address models.Address
	if err := s.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("Address not found", nil)
		}
		return nil, err
	}

	// Guest carts never reach checkout; the cart lookup is user-scoped.
	var cart models.Cart
	if err := s.DB.Where("user_id = ?", userID).Preload("Items.Product.Packs").First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.BadRequestError("Cannot place order with empty cart", nil)
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, utils.BadRequestError("Cannot place order with empty cart", nil)
	}

	var subtotal float64
	var items []models.OrderItem
	for _, item := range cart.Items {
		product := item.Product
		if product.ID == 0 || !product.IsActive {
			utils.LogInfo("Skipping unavailable product %d during checkout for user %d", item.ProductID, userID)
			continue
		}

		var unitPrice float64
		var currentStock int
		var packLabel string
		if pack, ok := resolveActivePack(product, item.PackLabel); ok {
			unitPrice = pack.EffectivePrice()
			currentStock = pack.Stock
			packLabel = pack.Label
		} else {
			unitPrice = product.Price
			if product.DiscountPrice > 0 {
				unitPrice = product.DiscountPrice
			}
			currentStock = product.Stock
		}

		// A single out-of-stock line fails the whole checkout; it is never
		// silently dropped.
		if currentStock < item.Quantity {
			return nil, utils.BadRequestError(
				fmt.Sprintf("%q%s does not have enough stock. Available: %d, Requested: %d",
					product.Name, packSuffix(packLabel), currentStock, item.Quantity), nil)
		}
		if unitPrice <= 0 {
			return nil, utils.BadRequestError(
				fmt.Sprintf("Unable to resolve a price for %q", product.Name), nil)
		}

		subtotal += unitPrice * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     unitPrice,
			Quantity:  item.Quantity,
			PackLabel: packLabel,
			Image:     product.ImageURL,
		})
	}

	if len(items) == 0 {
		return nil, utils.BadRequestError("No valid items in cart", nil)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, utils.WrapError(tx.Error, "failed to start transaction")
	}

	var coinsToUse int64
	var discount float64
	if cart.AppliedCoins > 0 {
		// The cart is the sole source of truth for redemption intent; the cap
		// is re-derived here against the freshly computed subtotal.
		var wallet models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, utils.BadRequestError("Insufficient coin balance", nil)
			}
			return nil, err
		}
		if wallet.Balance < cart.AppliedCoins {
			tx.Rollback()
			return nil, utils.BadRequestError("Insufficient coin balance", nil)
		}

		maxDiscount := math.Floor(subtotal * s.Cfg.MaxDiscountPercent / 100)
		maxCoinsUsable := int64(maxDiscount) * utils.CoinsPerCurrencyUnit

		coinsToUse = cart.AppliedCoins
		if maxCoinsUsable < coinsToUse {
			coinsToUse = maxCoinsUsable
		}
		if wallet.Balance < coinsToUse {
			coinsToUse = wallet.Balance
		}

		if coinsToUse > 0 {
			// The balance guard lives in the UPDATE itself so concurrent
			// checkouts cannot both spend the same coins.
			res := tx.Model(&models.Wallet{}).
				Where("user_id = ? AND balance >= ?", userID, coinsToUse).
				UpdateColumns(map[string]interface{}{
					"balance":           gorm.Expr("balance - ?", coinsToUse),
					"lifetime_redeemed": gorm.Expr("lifetime_redeemed + ?", coinsToUse),
				})
			if res.Error != nil {
				tx.Rollback()
				return nil, utils.WrapError(res.Error, "failed to redeem coins")
			}
			if res.RowsAffected == 0 {
				tx.Rollback()
				return nil, utils.BadRequestError("Insufficient coin balance", nil)
			}
			discount = float64(coinsToUse) / utils.CoinsPerCurrencyUnit
		}
	}

	shippingFee := utils.StandardShippingFee
	if subtotal > utils.FreeShippingThreshold {
		shippingFee = 0
	}

	order := models.Order{
		UserID:        userID,
		Subtotal:      subtotal,
		ShippingFee:   shippingFee,
		Discount:      discount,
		CoinsRedeemed: coinsToUse,
		TotalAmount:   math.Max(0, subtotal+shippingFee-discount),

		ShipName:       address.Name,
		ShipPhone:      address.Phone,
		ShipLine1:      address.Line1,
		ShipLine2:      address.Line2,
		ShipCity:       address.City,
		ShipState:      address.State,
		ShipCountry:    address.Country,
		ShipPostalCode: address.PostalCode,

		Status:        models.OrderStatusPlaced,
		PaymentStatus: models.PaymentStatusPending,
		OrderItems:    items,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to create order")
	}

	if err := deleteCart(tx, cart.ID); err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to clear cart")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapError(err, "failed to commit order")
	}

	utils.LogInfo("Created order %d for user %d: subtotal %.2f, shipping %.2f, discount %.2f, total %.2f",
		order.ID, userID, order.Subtotal, order.ShippingFee, order.Discount, order.TotalAmount)
	return &order, nil
}

func packSuffix(label string) string {
	if label == "" {
		return ""
	}
	return fmt.Sprintf(" (pack %q)", label)
}

// GetOrder loads one of the user's orders with its items.
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("OrderItems").First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NotFoundError("Order not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(userID uint, pagination *utils.Pagination) ([]models.Order, error) {
	query := s.DB.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	pagination.SetTotal(total)

	var orders []models.Order
	err := query.Preload("OrderItems").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error
	return orders, err
}

// AdminListOrders returns every order, newest first, optionally filtered by status.
func (s *OrderService) AdminListOrders(status string, pagination *utils.Pagination) ([]models.Order, error) {
	query := s.DB.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	pagination.SetTotal(total)

	var orders []models.Order
	err := query.Preload("OrderItems").Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error
	return orders, err
}

// UpdateStatus applies an administrative status transition. Setting the
// current status again is a no-op. Cancelling a paid order restocks its items.
// The status-change notification is best effort and never fails the update.
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	var normalized string
	for _, valid := range models.ValidOrderStatuses {
		if strings.EqualFold(valid, status) {
			normalized = valid
			break
		}
	}
	if normalized == "" {
		return nil, utils.BadRequestError("Invalid status", nil)
	}

	var order models.Order
	if err := s.DB.Preload("OrderItems").Preload("User").First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("Order not found", nil)
		}
		return nil, err
	}

	if order.Status == normalized {
		return &order, nil
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, utils.WrapError(tx.Error, "failed to start transaction")
	}

	if err := tx.Model(&order).Update("status", normalized).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to update order status")
	}

	// Stock was deducted at settlement, so only a paid order has anything to
	// give back on cancellation.
	if normalized == models.OrderStatusCancelled && order.PaymentStatus == models.PaymentStatusPaid {
		if err := restockItems(tx, order.OrderItems); err != nil {
			tx.Rollback()
			return nil, utils.WrapError(err, "failed to restock items")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapError(err, "failed to commit status update")
	}

	order.Status = normalized
	utils.LogInfo("Order %d status updated to %s", order.ID, normalized)

	s.Notifier.Emit(Event{
		Type:      EventOrderStatusChanged,
		Recipient: order.User.Email,
		Data: map[string]interface{}{
			"order_id": order.ID,
			"status":   normalized,
		},
	})

	return &order, nil
}

func restockItems(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if item.PackLabel != "" {
			err := tx.Model(&models.Pack{}).
				Where("product_id = ? AND label = ?", item.ProductID, item.PackLabel).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
			continue
		}
		err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
