package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// Gateway creates orders on the payment provider. It is an interface so tests
// can run without network access.
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (string, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	rzOrder, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", rzOrder["id"]), nil
}

// PaymentService drives the settlement state machine. Both entry points, the
// direct client verification and the asynchronous gateway webhook, converge on
// settle, which is guarded so that the paid flip and the stock deduction
// happen at most once per order no matter how many times either path fires.
type PaymentService struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Gateway  Gateway
	Notifier *Notifier
}

// NewPaymentService creates a payment service using the Razorpay gateway.
func NewPaymentService(db *gorm.DB, cfg *config.Config, notifier *Notifier) *PaymentService {
	return &PaymentService{
		DB:       db,
		Cfg:      cfg,
		Gateway:  &razorpayGateway{client: razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret)},
		Notifier: notifier,
	}
}

// InitiateResult carries what the storefront needs to open the gateway checkout.
type InitiateResult struct {
	OrderID         uint    `json:"order_id"`
	RazorpayOrderID string  `json:"razorpay_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Key             string  `json:"key"`
}

// InitiatePayment creates the gateway-side order for a pending order and
// stores the returned gateway order id. Re-initiating a pending order reuses
// the existing gateway order instead of creating a duplicate.
func (s *PaymentService) InitiatePayment(userID, orderID uint) (*InitiateResult, error) {
	var order models.Order
	if err := s.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("Order not found", nil)
		}
		return nil, err
	}

	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, utils.BadRequestError("Payment for this order has already been processed", nil)
	}

	if order.RazorpayOrderID == "" {
		amountPaise := int64(math.Round(order.TotalAmount * 100))
		receipt := "order_rcptid_" + strconv.FormatUint(uint64(order.ID), 10)
		gatewayOrderID, err := s.Gateway.CreateOrder(amountPaise, "INR", receipt)
		if err != nil {
			return nil, utils.WrapError(err, "failed to create gateway order")
		}
		if err := s.DB.Model(&order).Update("razorpay_order_id", gatewayOrderID).Error; err != nil {
			return nil, utils.WrapError(err, "failed to store gateway order id")
		}
		order.RazorpayOrderID = gatewayOrderID
		utils.LogInfo("Created gateway order %s for order %d", gatewayOrderID, order.ID)
	}

	return &InitiateResult{
		OrderID:         order.ID,
		RazorpayOrderID: order.RazorpayOrderID,
		Amount:          order.TotalAmount,
		Currency:        "INR",
		Key:             s.Cfg.RazorpayKey,
	}, nil
}

// VerifyRequest is the direct client-confirmation payload.
type VerifyRequest struct {
	OrderID           uint   `json:"order_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment checks the gateway signature over orderID|paymentID and, when
// valid, settles the order. A signature mismatch leaves the order untouched.
func (s *PaymentService) VerifyPayment(userID uint, req VerifyRequest) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("Order not found", nil)
		}
		return nil, err
	}

	if order.RazorpayOrderID != req.RazorpayOrderID {
		return nil, utils.BadRequestError("Invalid gateway order id", nil)
	}

	if !verifySignature(s.Cfg.RazorpaySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Payment signature mismatch for order %d", order.ID)
		return nil, utils.BadRequestError("Payment verification failed", nil)
	}

	if _, err := s.settle(order.ID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		return nil, err
	}

	if err := s.DB.Preload("OrderItems").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// verifySignature checks HMAC-SHA256(secret, orderID + "|" + paymentID).
func verifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// settle marks the order paid and confirmed and deducts stock, exactly once.
// The idempotency guard is the conditional UPDATE: only the caller whose
// update actually matched a row performs the stock deduction, so a concurrent
// webhook redelivery or a verify/webhook race settles a single time.
func (s *PaymentService) settle(orderID uint, gatewayPaymentID, gatewaySignature string) (bool, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return false, utils.WrapError(tx.Error, "failed to start transaction")
	}

	updates := map[string]interface{}{
		"payment_status":      models.PaymentStatusPaid,
		"status":              models.OrderStatusConfirmed,
		"razorpay_payment_id": gatewayPaymentID,
	}
	if gatewaySignature != "" {
		updates["razorpay_signature"] = gatewaySignature
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, models.PaymentStatusPaid).
		Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return false, utils.WrapError(res.Error, "failed to mark order paid")
	}
	if res.RowsAffected == 0 {
		// Already settled by the other entry point; nothing left to do.
		tx.Rollback()
		utils.LogInfo("Order %d already settled, skipping", orderID)
		return false, nil
	}

	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		tx.Rollback()
		return false, utils.WrapError(err, "failed to load order items")
	}

	for _, item := range items {
		if err := deductStock(tx, item); err != nil {
			tx.Rollback()
			return false, utils.WrapError(err, "failed to deduct stock")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, utils.WrapError(err, "failed to commit settlement")
	}

	utils.LogInfo("Order %d settled: payment %s", orderID, gatewayPaymentID)
	s.notifyConfirmed(orderID)
	return true, nil
}

func deductStock(tx *gorm.DB, item models.OrderItem) error {
	if item.PackLabel != "" {
		return tx.Model(&models.Pack{}).
			Where("product_id = ? AND label = ?", item.ProductID, item.PackLabel).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", item.ProductID).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
}

// notifyConfirmed emits the confirmation event after the settlement has
// committed. Failures are the notifier's problem, never the settlement's.
func (s *PaymentService) notifyConfirmed(orderID uint) {
	var order models.Order
	if err := s.DB.Preload("User").First(&order, orderID).Error; err != nil {
		utils.LogError("Failed to load order %d for confirmation notification: %v", orderID, err)
		return
	}
	s.Notifier.Emit(Event{
		Type:      EventOrderConfirmed,
		Recipient: order.User.Email,
		Data: map[string]interface{}{
			"order_id":     order.ID,
			"total_amount": order.TotalAmount,
		},
	})
}

// Webhook event names sent by the gateway.
const (
	webhookEventCaptured = "payment.captured"
	webhookEventFailed   = "payment.failed"
)

// webhookPayload mirrors the slice of the gateway webhook body we consume.
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookResult reports what the handler did, for logging and the response body.
type WebhookResult struct {
	Event   string `json:"event"`
	Handled bool   `json:"handled"`
}

// HandleWebhook verifies the webhook signature over the raw body, then applies
// the event. Unknown orders and unrecognized events are acknowledged without
// action so the gateway does not retry forever; only a bad signature is an
// error. The handler is safe to invoke any number of times for the same event.
func (s *PaymentService) HandleWebhook(rawBody []byte, signature string) (*WebhookResult, error) {
	h := hmac.New(sha256.New, []byte(s.Cfg.RazorpayWebhookSecret))
	h.Write(rawBody)
	expected := hex.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, utils.BadRequestError("Invalid webhook signature", nil)
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, utils.BadRequestError("Malformed webhook payload", err)
	}

	result := &WebhookResult{Event: payload.Event}
	entity := payload.Payload.Payment.Entity

	switch payload.Event {
	case webhookEventCaptured:
		var order models.Order
		err := s.DB.Where("razorpay_order_id = ?", entity.OrderID).First(&order).Error
		if err == gorm.ErrRecordNotFound {
			utils.LogInfo("Webhook for unknown gateway order %s, acknowledging", entity.OrderID)
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		handled, err := s.settle(order.ID, entity.ID, "")
		if err != nil {
			return nil, err
		}
		result.Handled = handled

	case webhookEventFailed:
		// Never let a late failure event overwrite a completed settlement.
		res := s.DB.Model(&models.Order{}).
			Where("razorpay_order_id = ? AND payment_status <> ?", entity.OrderID, models.PaymentStatusPaid).
			Update("payment_status", models.PaymentStatusFailed)
		if res.Error != nil {
			return nil, res.Error
		}
		result.Handled = res.RowsAffected > 0

	default:
		utils.LogDebug("Ignoring webhook event %q", payload.Event)
	}

	return result, nil
}
