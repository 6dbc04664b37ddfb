package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vendora/models"
)

// PaymentWebhook handles POST /api/bookings/webhook. The gateway retries on
// anything but a fast 200, so the handler always acknowledges once the
// payload is readable and keeps reconciliation failures to itself. Those
// failures are logged with the payment reference; no caller ever sees them.
func (h *BookingHandler) PaymentWebhook(c *gin.Context) {
	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("unreadable webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"received": false})
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), &event); err != nil {
		h.logger.Error("webhook reconciliation failed",
			zap.String("paymentReference", event.PaymentReference()),
			zap.String("gatewayStatus", event.NormalizedStatus()),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
