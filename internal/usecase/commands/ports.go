package commands

import (
	"context"

	"github.com/google/uuid"
)

// PaymentStatus is the normalized view of whatever the provider reports.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type PaymentLine struct {
	Description    string
	Quantity       int
	UnitPriceCents int64
}

type CreatePaymentRequest struct {
	Reference   string
	AmountCents int64
	Currency    string
	Description string
	PayerEmail  string
	Lines       []PaymentLine
}

// Payment is the gateway's record of one payment attempt. Reference echoes
// the value we supplied at creation and is how a callback is mapped back to
// its order.
type Payment struct {
	ID         string
	Reference  string
	Status     PaymentStatus
	PayableRef string
}

// PaymentGateway is the only contract the core depends on; provider-specific
// field names stay inside the infra client.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}

type Ticket struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Code    string
}

// TicketIssuer is invoked exactly once per order's transition into paid.
type TicketIssuer interface {
	IssueTickets(ctx context.Context, orderID uuid.UUID) ([]Ticket, error)
}
