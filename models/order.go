package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPlaced         = "Placed"
	OrderStatusConfirmed      = "Confirmed"
	OrderStatusShipped        = "Shipped"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// Payment status constants
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// Order is immutable after creation except for Status, PaymentStatus and the
// gateway references, which are driven by the payment settlement flow and by
// admin status updates. Items and the shipping address are frozen snapshots:
// they are never re-derived from the live product or address rows.
type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `json:"user_id" gorm:"index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Subtotal      float64 `json:"subtotal"`
	ShippingFee   float64 `json:"shipping_fee"`
	Discount      float64 `json:"discount"`
	CoinsRedeemed int64   `json:"coins_redeemed"`
	TotalAmount   float64 `json:"total_amount"`

	// Shipping address snapshot, copied field by field at order creation.
	ShipName       string `json:"ship_name"`
	ShipPhone      string `json:"ship_phone"`
	ShipLine1      string `json:"ship_line1"`
	ShipLine2      string `json:"ship_line2"`
	ShipCity       string `json:"ship_city"`
	ShipState      string `json:"ship_state"`
	ShipCountry    string `json:"ship_country"`
	ShipPostalCode string `json:"ship_postal_code"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	RazorpayOrderID   string `json:"razorpay_order_id" gorm:"index"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"-"`

	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	OrderItems []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is a frozen snapshot of a cart line at checkout time. ProductID is
// kept for traceability only; Name, Price and Image belong to the order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `json:"order_id" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	PackLabel string  `json:"pack_label"`
	Image     string  `json:"image"`
}

// ValidOrderStatuses lists every status an admin may set.
var ValidOrderStatuses = []string{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}
