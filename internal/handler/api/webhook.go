package api

import (
	"errors"
	"net/http"

	reqdto "ticketline/internal/handler/dto/request"
	"ticketline/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewWebhookHandler(paymentCommands commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{
		paymentCommands: paymentCommands,
	}
}

// @Summary Payment webhook
// @Description Provider notification that a payment changed state
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentWebhookRequest true "Webhook body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *WebhookHandler) PaymentWebhook(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	// Reconcile absorbs payloads that match nothing on our side; a 200 here
	// stops the provider from retrying forever. Only a transient failure
	// (gateway or database) earns a retryable status.
	if err := h.paymentCommands.Reconcile(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, commands.ErrGatewayUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment gateway unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
