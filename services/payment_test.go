package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	calls int
}

func (g *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	g.calls++
	return fmt.Sprintf("rzp_test_%d", g.calls), nil
}

func paymentTestConfig() *config.Config {
	cfg := testConfig()
	cfg.RazorpayKey = "rzp_key"
	cfg.RazorpaySecret = "rzp_secret"
	cfg.RazorpayWebhookSecret = "rzp_webhook_secret"
	return cfg
}

func newTestPaymentService(db *gorm.DB, cfg *config.Config) (*PaymentService, *fakeGateway) {
	gateway := &fakeGateway{}
	return &PaymentService{
		DB:       db,
		Cfg:      cfg,
		Gateway:  gateway,
		Notifier: NewNotifier(cfg),
	}, gateway
}

func signPayment(secret, gatewayOrderID, gatewayPaymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func placeTestOrder(t *testing.T, db *gorm.DB, cfg *config.Config, qty int) (*models.Order, models.Product) {
	t.Helper()
	carts := NewCartService(db, cfg)
	orders := NewOrderService(db, cfg, NewNotifier(cfg))

	user := createTestUser(t, db, 1)
	address := createTestAddress(t, db, user.ID)
	product := createFlatProduct(t, db, "Oats", 100, 50)

	_, err := carts.AddItem(UserOwner(user.ID), product.ID, qty, "")
	require.NoError(t, err)
	order, err := orders.CreateOrder(user.ID, address.ID)
	require.NoError(t, err)
	return order, product
}

func TestInitiatePaymentReusesGatewayOrder(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, gateway := newTestPaymentService(db, cfg)
	order, _ := placeTestOrder(t, db, cfg, 1)

	first, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_1", first.RazorpayOrderID)
	assert.Equal(t, order.TotalAmount, first.Amount)
	assert.Equal(t, "rzp_key", first.Key)

	// Re-initiating must not create a second gateway order.
	second, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RazorpayOrderID, second.RazorpayOrderID)
	assert.Equal(t, 1, gateway.calls)
}

func TestInitiatePaymentRejectsSettledOrder(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, _ := placeTestOrder(t, db, cfg, 1)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_status", models.PaymentStatusPaid).Error)

	_, err := payments.InitiatePayment(order.UserID, order.ID)
	require.Error(t, err)
}

func TestVerifyPaymentSettlesOnce(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, product := placeTestOrder(t, db, cfg, 3)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	req := VerifyRequest{
		OrderID:           order.ID,
		RazorpayOrderID:   initiated.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: signPayment(cfg.RazorpaySecret, initiated.RazorpayOrderID, "pay_123"),
	}
	settled, err := payments.VerifyPayment(order.UserID, req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, settled.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, settled.Status)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 47, fresh.Stock)

	// Verifying again is a no-op: no second deduction.
	_, err = payments.VerifyPayment(order.UserID, req)
	require.NoError(t, err)
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 47, fresh.Stock)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, product := placeTestOrder(t, db, cfg, 1)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	req := VerifyRequest{
		OrderID:           order.ID,
		RazorpayOrderID:   initiated.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "forged",
	}
	_, err = payments.VerifyPayment(order.UserID, req)
	require.Error(t, err)

	// The order and stock must be untouched.
	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, fresh.PaymentStatus)
	var freshProduct models.Product
	require.NoError(t, db.First(&freshProduct, product.ID).Error)
	assert.Equal(t, 50, freshProduct.Stock)
}

func webhookBody(event, paymentID, gatewayOrderID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":%q}}}}`,
		event, paymentID, gatewayOrderID))
}

func TestWebhookCapturedSettlesIdempotently(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, product := placeTestOrder(t, db, cfg, 2)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	body := webhookBody("payment.captured", "pay_456", initiated.RazorpayOrderID)
	signature := signBody(cfg.RazorpayWebhookSecret, body)

	// Deliver the same event three times; exactly one settlement.
	for i := 0; i < 3; i++ {
		result, err := payments.HandleWebhook(body, signature)
		require.NoError(t, err)
		assert.Equal(t, i == 0, result.Handled)
	}

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, fresh.PaymentStatus)
	assert.Equal(t, "pay_456", fresh.RazorpayPaymentID)

	var freshProduct models.Product
	require.NoError(t, db.First(&freshProduct, product.ID).Error)
	assert.Equal(t, 48, freshProduct.Stock)
}

func TestVerifyThenWebhookSettlesOnce(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, product := placeTestOrder(t, db, cfg, 2)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	req := VerifyRequest{
		OrderID:           order.ID,
		RazorpayOrderID:   initiated.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: signPayment(cfg.RazorpaySecret, initiated.RazorpayOrderID, "pay_123"),
	}
	_, err = payments.VerifyPayment(order.UserID, req)
	require.NoError(t, err)

	// The gateway fires its webhook for the same payment afterwards.
	body := webhookBody("payment.captured", "pay_123", initiated.RazorpayOrderID)
	result, err := payments.HandleWebhook(body, signBody(cfg.RazorpayWebhookSecret, body))
	require.NoError(t, err)
	assert.False(t, result.Handled)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 48, fresh.Stock)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)

	body := webhookBody("payment.captured", "pay_456", "rzp_test_1")
	_, err := payments.HandleWebhook(body, "forged")
	require.Error(t, err)
}

func TestWebhookUnknownOrderAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)

	body := webhookBody("payment.captured", "pay_456", "rzp_unknown")
	result, err := payments.HandleWebhook(body, signBody(cfg.RazorpayWebhookSecret, body))
	require.NoError(t, err)
	assert.False(t, result.Handled)
}

func TestWebhookFailedNeverOverwritesPaid(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, _ := placeTestOrder(t, db, cfg, 1)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	captured := webhookBody("payment.captured", "pay_789", initiated.RazorpayOrderID)
	_, err = payments.HandleWebhook(captured, signBody(cfg.RazorpayWebhookSecret, captured))
	require.NoError(t, err)

	// A straggler failure event arrives after settlement.
	failed := webhookBody("payment.failed", "pay_789", initiated.RazorpayOrderID)
	result, err := payments.HandleWebhook(failed, signBody(cfg.RazorpayWebhookSecret, failed))
	require.NoError(t, err)
	assert.False(t, result.Handled)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, fresh.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, fresh.Status)
}

func TestWebhookFailedMarksPendingOrderFailed(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)
	order, _ := placeTestOrder(t, db, cfg, 1)

	initiated, err := payments.InitiatePayment(order.UserID, order.ID)
	require.NoError(t, err)

	failed := webhookBody("payment.failed", "pay_789", initiated.RazorpayOrderID)
	result, err := payments.HandleWebhook(failed, signBody(cfg.RazorpayWebhookSecret, failed))
	require.NoError(t, err)
	assert.True(t, result.Handled)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, fresh.PaymentStatus)
}

func TestWebhookIgnoresUnrecognizedEvents(t *testing.T) {
	db := setupTestDB(t)
	cfg := paymentTestConfig()
	payments, _ := newTestPaymentService(db, cfg)

	body := webhookBody("refund.created", "pay_1", "rzp_1")
	result, err := payments.HandleWebhook(body, signBody(cfg.RazorpayWebhookSecret, body))
	require.NoError(t, err)
	assert.False(t, result.Handled)
}
