package issuer

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

	"github.com/google/uuid"
)

// Client calls the ticket issuance service once an order is paid.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    cfg.IssuerURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type issueRequest struct {
	OrderID uuid.UUID `json:"order_id"`
}

type ticketEntry struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

type issueResponse struct {
	Tickets []ticketEntry `json:"tickets"`
}

func (c *Client) IssueTickets(ctx context.Context, orderID uuid.UUID) ([]commands.Ticket, error) {
	raw, err := json.Marshal(issueRequest{OrderID: orderID})
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode issue request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tickets/issue", bytes.NewReader(raw))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build issue request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "issue request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, errs.New(fmt.Sprintf("issuer returned %d: %s", resp.StatusCode, string(body)))
	}

	var body issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(err, "failed to decode issue response")
	}

	tickets := make([]commands.Ticket, 0, len(body.Tickets))
	for _, entry := range body.Tickets {
		tickets = append(tickets, commands.Ticket{
			ID:      entry.ID,
			OrderID: orderID,
			Code:    entry.Code,
		})
	}
	return tickets, nil
}
