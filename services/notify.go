package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/segmentio/kafka-go"
)

// Event types emitted on the notification side channel.
const (
	EventOrderConfirmed     = "order.confirmed"
	EventOrderStatusChanged = "order.status_changed"
	EventRewardGranted      = "reward.granted"
)

// Event is a notification to deliver: an event-bus message, an email when a
// recipient is set, or both.
type Event struct {
	Type      string                 `json:"event_type"`
	Recipient string                 `json:"recipient_email,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

// Notifier is the fire-and-forget side channel for order and reward events.
// Emit never blocks the caller and never surfaces a failure; the critical
// paths that call it must not depend on delivery.
type Notifier struct {
	cfg    *config.Config
	writer *kafka.Writer
}

// NewNotifier builds a notifier. The kafka writer is only created when brokers
// are configured; email is only attempted when SMTP is configured. With
// neither, Emit just logs.
func NewNotifier(cfg *config.Config) *Notifier {
	n := &Notifier{cfg: cfg}
	if len(cfg.KafkaBrokers) > 0 {
		n.writer = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}
	return n
}

// Emit delivers the event asynchronously. Panics and errors are contained and
// logged here; the caller gets nothing back by design.
func (n *Notifier) Emit(event Event) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.LogError("Notification delivery panicked for %s: %v", event.Type, r)
			}
		}()
		n.deliver(event)
	}()
}

func (n *Notifier) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n.writer != nil {
		value, err := json.Marshal(event)
		if err != nil {
			utils.LogError("Failed to marshal %s event: %v", event.Type, err)
		} else if err := n.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.Type),
			Value: value,
		}); err != nil {
			utils.LogError("Failed to publish %s event: %v", event.Type, err)
		}
	}

	if event.Recipient != "" && n.cfg.SMTPHost != "" {
		subject, body := renderEmail(event)
		err := utils.SendEmail(utils.EmailConfig{
			Host:     n.cfg.SMTPHost,
			Port:     n.cfg.SMTPPort,
			Username: n.cfg.SMTPUsername,
			Password: n.cfg.SMTPPassword,
			From:     n.cfg.SMTPFrom,
		}, event.Recipient, subject, body)
		if err != nil {
			utils.LogError("Failed to send %s email to %s: %v", event.Type, event.Recipient, err)
		}
	}

	utils.LogDebug("Delivered %s notification", event.Type)
}

// Close flushes and closes the event-bus writer.
func (n *Notifier) Close() {
	if n.writer != nil {
		if err := n.writer.Close(); err != nil {
			utils.LogError("Failed to close event writer: %v", err)
		}
	}
}

func renderEmail(event Event) (subject, body string) {
	switch event.Type {
	case EventOrderConfirmed:
		subject = "Your NutriKart order is confirmed!"
		body = fmt.Sprintf(`
			<h2>Order Confirmed</h2>
			<p>We have received your payment for order #%v.</p>
			<p>Total: %.2f</p>
			<p>We will let you know as soon as it ships.</p>
		`, event.Data["order_id"], event.Data["total_amount"])
	case EventOrderStatusChanged:
		subject = "Your NutriKart order was updated"
		body = fmt.Sprintf(`
			<h2>Order Update</h2>
			<p>Order #%v is now: <b>%v</b></p>
		`, event.Data["order_id"], event.Data["status"])
	default:
		subject = "NutriKart update"
		body = fmt.Sprintf("<p>%s</p>", event.Type)
	}
	return subject, body
}
