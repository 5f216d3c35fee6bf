package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ticketline/internal/pkg/config"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/usecase/commands"
)

// Client talks to the payment provider's REST API. Only the normalized
// contract in usecase/commands leaks out of this package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenCache
}

func NewClient(cfg config.GatewayConfig) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		tokens:     newTokenCache(cfg, httpClient),
	}
}

// Wire types are the provider's vocabulary, kept out of the rest of the
// codebase.
type createPaymentPayload struct {
	Reference   string             `json:"reference"`
	AmountCents int64              `json:"amount_cents"`
	Currency    string             `json:"currency"`
	Description string             `json:"description"`
	Lines       []paymentLineEntry `json:"lines"`
}

type paymentLineEntry struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type paymentResource struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

func (c *Client) CreatePayment(ctx context.Context, req commands.CreatePaymentRequest) (*commands.Payment, error) {
	payload := createPaymentPayload{
		Reference:   req.Reference,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
	}
	for _, line := range req.Lines {
		payload.Lines = append(payload.Lines, paymentLineEntry{
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	var resource paymentResource
	if err := c.do(ctx, http.MethodPost, "/v1/payments", payload, &resource); err != nil {
		return nil, err
	}

	return toPayment(resource), nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*commands.Payment, error) {
	var resource paymentResource
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+id, nil, &resource); err != nil {
		return nil, err
	}
	return toPayment(resource), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.get(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to obtain gateway token")
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode gateway request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return errs.New(fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, string(raw)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.Wrap(err, "failed to decode gateway response")
		}
	}
	return nil
}

func toPayment(resource paymentResource) *commands.Payment {
	return &commands.Payment{
		ID:         resource.ID,
		Reference:  resource.Reference,
		Status:     normalizeStatus(resource.Status),
		PayableRef: resource.CheckoutURL,
	}
}

// normalizeStatus folds the provider's status vocabulary into the three
// states the core cares about. Unknown strings are treated as pending so a
// new provider status can never flip an order by accident.
func normalizeStatus(status string) commands.PaymentStatus {
	switch status {
	case "paid", "settled":
		return commands.PaymentStatusPaid
	case "canceled", "cancelled", "expired", "failed":
		return commands.PaymentStatusCancelled
	default:
		return commands.PaymentStatusPending
	}
}
