package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
)

type WebhookHandler struct {
	Svc    *payments.WebhookService
	Logger *slog.Logger
}

func NewWebhookHandler(svc *payments.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{Svc: svc, Logger: logger}
}

// POST|GET /webhooks/mercadopago?topic=&id=&orderId=
// Plain-text responses; the status code alone drives the gateway's
// redelivery (non-2xx means it will retry later).
func (h *WebhookHandler) Handle(c *gin.Context) {
	n := payments.Notification{
		Topic:      c.Query("topic"),
		ResourceID: c.Query("id"),
		OrderID:    c.Query("orderId"),
	}

	h.Logger.Info("webhook received",
		"topic", n.Topic, "id", n.ResourceID, "order_id", n.OrderID)

	if err := h.Svc.HandleNotification(c.Request.Context(), n); err != nil {
		status := apperr.HTTPStatus(err)
		if status == http.StatusBadRequest {
			c.String(status, "Order ID is required in webhook query parameters.")
			return
		}
		h.Logger.Error("webhook processing failed",
			"topic", n.Topic, "id", n.ResourceID, "order_id", n.OrderID, "err", err)
		c.String(status, "Failed to process webhook.")
		return
	}

	c.String(http.StatusOK, "Webhook processed.")
}
