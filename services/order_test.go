package services

import (
	"testing"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderHappyPath(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 2, "")
	require.NoError(t, err)

	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 40.0, order.ShippingFee)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 240.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Oats", order.OrderItems[0].Name)
	assert.Equal(t, 100.0, order.OrderItems[0].Price)

	// Address snapshot frozen onto the order.
	assert.Equal(t, address.Line1, order.ShipLine1)
	assert.Equal(t, address.City, order.ShipCity)

	// Cart is gone after checkout.
	cart, err := carts.GetCart(UserOwner(user.ID))
	require.NoError(t, err)
	assert.Nil(t, cart)

	// Stock is untouched until settlement.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 50, fresh.Stock)
}

func TestCreateOrderShippingFeeThreshold(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Granola", 300, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 1, "")
	require.NoError(t, err)

	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 300.0, order.TotalAmount)
}

func TestCreateOrderSkipsInactiveButFailsOnStock(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	oats := createFlatProduct(t, db, "Oats", 100, 50)
	bars := createFlatProduct(t, db, "Bars", 150, 50)

	_, err := carts.AddItem(UserOwner(user.ID), oats.ID, 1, "")
	require.NoError(t, err)
	_, err = carts.AddItem(UserOwner(user.ID), bars.ID, 1, "")
	require.NoError(t, err)

	// An inactive line is silently dropped.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", bars.ID).Update("is_active", false).Error)

	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Oats", order.OrderItems[0].Name)

	// An out-of-stock line fails the whole checkout.
	_, err = carts.AddItem(UserOwner(user.ID), oats.ID, 100, "")
	require.NoError(t, err)
	_, err = orders.CreateOrder(user.ID, address.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}

func TestCreateOrderAllItemsUnavailable(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 1, "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)

	_, err = orders.CreateOrder(user.ID, address.ID)
	require.Error(t, err)
}

func TestCreateOrderRedeemsCoinsWithReclamp(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)
	setWalletBalance(t, db, user.ID, 1000)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 1, "")
	require.NoError(t, err)
	_, err = carts.ApplyCoins(user.ID, CoinActionApply, 0)
	require.NoError(t, err)

	// Price drops between apply and checkout; the cap is re-derived from the
	// fresh subtotal, so the 200 applied coins clamp down to 100.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 50).Error)

	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.Subtotal)
	assert.Equal(t, int64(100), order.CoinsRedeemed)
	assert.Equal(t, 10.0, order.Discount)
	assert.Equal(t, 80.0, order.TotalAmount) // 50 - 10 + 40 shipping

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	assert.Equal(t, int64(900), wallet.Balance)
	assert.Equal(t, int64(100), wallet.LifetimeRedeemed)
}

func TestCreateOrderInsufficientBalanceFails(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)
	setWalletBalance(t, db, user.ID, 200)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 1, "")
	require.NoError(t, err)
	_, err = carts.ApplyCoins(user.ID, CoinActionApply, 0)
	require.NoError(t, err)

	// Coins vanish between apply and checkout.
	require.NoError(t, db.Model(&models.Wallet{}).Where("user_id = ?", user.ID).Update("balance", 0).Error)

	_, err = orders.CreateOrder(user.ID, address.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient coin balance")

	// The failed checkout must leave the cart in place.
	cart, err := carts.GetCart(UserOwner(user.ID))
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Len(t, cart.Items, 1)
}

func TestOrderSnapshotImmuneToCatalogEdits(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 1, "")
	require.NoError(t, err)
	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"name": "Rebranded", "price": 999}).Error)

	fresh, err := orders.GetOrder(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oats", fresh.OrderItems[0].Name)
	assert.Equal(t, 100.0, fresh.OrderItems[0].Price)
	assert.Equal(t, 100.0, fresh.Subtotal)
}

func TestCreateOrderUsesDefaultPack(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createPackedProduct(t, db, "Protein", []models.Pack{
		{Label: "500g", Price: 500, DiscountPrice: 450, Stock: 10},
		{Label: "1kg", Price: 900, Stock: 5, IsDefault: true},
	})

	// No pack label on the line: the default pack wins at order time.
	cart, err := carts.getOrCreateCart(UserOwner(user.ID))
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}).Error)

	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "1kg", order.OrderItems[0].PackLabel)
	assert.Equal(t, 900.0, order.OrderItems[0].Price)
}

func TestUpdateStatusRestocksOnlyPaidCancellations(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, notifier)

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, 5, "")
	require.NoError(t, err)
	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)

	// Unpaid cancellation: stock was never deducted, nothing to give back.
	_, err = orders.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 50, fresh.Stock)

	// Paid cancellation restocks.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":         models.OrderStatusConfirmed,
		"payment_status": models.PaymentStatusPaid,
	}).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock", 45).Error)

	_, err = orders.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 50, fresh.Stock)
}

func TestUpdateStatusValidation(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := NewNotifier(cfg)
	orders := NewOrderService(db, cfg, notifier)

	_, err := orders.UpdateStatus(1, "Teleported")
	require.Error(t, err)

	_, err = orders.UpdateStatus(9999, models.OrderStatusShipped)
	require.Error(t, err)
}
