package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/kamaracell/minha-loja-virtual/internal/modules/orders"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/retry"
)

const TopicPayment = "payment"

// Notification is one webhook delivery as received from the gateway: the
// topic and resource id come from the gateway, the order id is the
// correlation token we embedded in the notification URL ourselves.
type Notification struct {
	Topic      string
	ResourceID string
	OrderID    string
}

type WebhookService struct {
	store   orders.Store
	gateway Gateway
	retry   *retry.Executor
	events  NotificationLog // optional audit log
	logger  *slog.Logger
}

func NewWebhookService(store orders.Store, gw Gateway, exec *retry.Executor, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{store: store, gateway: gw, retry: exec, logger: logger}
}

func (s *WebhookService) SetEventLog(l NotificationLog) { s.events = l }

// HandleNotification reconciles one webhook delivery. A nil return means the
// delivery is acknowledged (2xx) and the gateway must not redeliver; an error
// return maps to a 5xx/4xx and, for 5xx, relies on the gateway's redelivery
// as the outer retry loop.
func (s *WebhookService) HandleNotification(ctx context.Context, n Notification) error {
	if n.OrderID == "" {
		return apperr.InvalidErr("Order ID is required in webhook query parameters.", nil)
	}

	if n.Topic != TopicPayment {
		// merchant_order and unknown topics are acknowledged without action so
		// the gateway does not keep redelivering them.
		s.logger.InfoContext(ctx, "ignoring webhook topic",
			"topic", n.Topic, "resource_id", n.ResourceID, "order_id", n.OrderID)
		return nil
	}

	ev := s.record(ctx, n)

	payment, err := s.gateway.GetPayment(ctx, n.ResourceID)
	if err != nil {
		s.finish(ctx, ev, err)
		return apperr.GatewayErr("Failed to fetch payment details from gateway.", err)
	}

	s.logger.InfoContext(ctx, "payment details fetched",
		"payment_id", payment.ID, "status", payment.Status,
		"external_reference", payment.ExternalReference)

	if payment.ExternalReference != n.OrderID {
		// Correlation error, not a retryable condition: acknowledge so the
		// gateway does not redeliver, mutate nothing.
		s.logger.WarnContext(ctx, "external_reference does not match orderId, ignoring",
			"external_reference", payment.ExternalReference, "order_id", n.OrderID)
		s.finish(ctx, ev, errors.New("external_reference mismatch"))
		return nil
	}

	if err := s.apply(ctx, n.OrderID, payment); err != nil {
		s.finish(ctx, ev, err)
		return err
	}

	s.finish(ctx, ev, nil)
	return nil
}

func (s *WebhookService) apply(ctx context.Context, orderID string, payment Payment) error {
	cur, err := s.store.Get(ctx, orderID)
	if err != nil {
		// The reference matched, so a missing row is a store anomaly; surface
		// 500 and let the gateway redeliver once the store recovers.
		return apperr.StoreErr("Failed to load order for webhook update.", err)
	}

	newStatus := orders.NormalizeStatus(payment.Status)

	// mp_payment_id and mp_status are last-writer-wins across payment
	// attempts; the normalized status never downgrades from a terminal state
	// to a non-terminal one.
	fields := map[string]any{
		"mp_payment_id": strconv.FormatInt(payment.ID, 10),
		"mp_status":     payment.Status,
		"updated_at":    time.Now(),
	}
	if orders.IsTerminal(cur.Status) && !orders.IsTerminal(newStatus) {
		s.logger.WarnContext(ctx, "refusing terminal status downgrade",
			"order_id", orderID, "current", cur.Status, "reported", newStatus)
	} else {
		fields["status"] = newStatus
	}

	err = s.retry.Do(ctx, "order "+orderID, func(ctx context.Context) error {
		return s.store.Update(ctx, orderID, fields)
	})
	if err != nil {
		return apperr.StoreErr("Failed to update order status.", err)
	}

	s.logger.InfoContext(ctx, "order reconciled",
		"order_id", orderID, "status", newStatus, "mp_payment_id", payment.ID)
	return nil
}

// record appends the delivery to the audit log; failures are logged only, an
// audit miss must never fail reconciliation.
func (s *WebhookService) record(ctx context.Context, n Notification) *GatewayEvent {
	if s.events == nil {
		return nil
	}
	payload, _ := json.Marshal(n)
	ev := &GatewayEvent{
		Topic:       n.Topic,
		ResourceID:  n.ResourceID,
		OrderID:     n.OrderID,
		PayloadJSON: payload,
	}
	if err := s.events.Record(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to record gateway event", "err", err)
		return nil
	}
	return ev
}

func (s *WebhookService) finish(ctx context.Context, ev *GatewayEvent, processErr error) {
	if s.events == nil || ev == nil {
		return
	}
	if err := s.events.Finish(ctx, ev.ID, processErr); err != nil {
		s.logger.WarnContext(ctx, "failed to finish gateway event", "event_id", ev.ID, "err", err)
	}
}
