package request

// PaymentWebhookRequest is the provider's notification body. Only the payment
// id is trusted; the status is re-fetched from the gateway.
type PaymentWebhookRequest struct {
	ID string `json:"id" binding:"required"`
}
