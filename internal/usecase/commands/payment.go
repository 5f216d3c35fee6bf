package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrGatewayUnavailable = errs.New("payment gateway unavailable")

type StartPaymentResult struct {
	PaymentID  string
	PayableRef string
	Reused     bool
}

type PaymentCommands interface {
	// StartPayment obtains a payable reference from the gateway for a
	// pending order. Calling it again while the existing payment is still
	// payable returns that payment instead of creating a duplicate.
	StartPayment(ctx context.Context, orderID, userID uuid.UUID) (*StartPaymentResult, error)
	// Reconcile aligns the order with the gateway's authoritative status for
	// one payment. Replays are no-ops; an unresolvable payload is logged and
	// absorbed so a retrying provider is not fed endless failures.
	Reconcile(ctx context.Context, providerPaymentID string) error
}

type paymentCommandsImpl struct {
	uow     shared.UnitOfWork
	orders  shared.OrderRepository
	gateway PaymentGateway
	issuer  TicketIssuer
	clock   clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, orders shared.OrderRepository, gateway PaymentGateway, issuer TicketIssuer, clk clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{
		uow:     uow,
		orders:  orders,
		gateway: gateway,
		issuer:  issuer,
		clock:   clk,
	}
}

func (c *paymentCommandsImpl) StartPayment(ctx context.Context, orderID, userID uuid.UUID) (*StartPaymentResult, error) {
	var (
		snapshot *shared.OrderSnapshot
		items    []shared.OrderItemSnapshot
	)
	err := c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		snapshot, err = c.orders.FindByID(ctx, dbtx, orderID)
		if err != nil {
			return err
		}
		items, err = c.orders.ItemsByOrderID(ctx, dbtx, orderID)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrOrderNotFound)
		}
		return nil, err
	}

	if snapshot.UserID != userID {
		return nil, ErrOrderForbidden
	}
	switch order.Status(snapshot.Status) {
	case order.StatusPending:
	case order.StatusPaid:
		return nil, ErrOrderAlreadyPaid
	default:
		return nil, ErrOrderNotPending
	}

	// An existing payment that the gateway still considers payable is
	// reused; a fresh gateway-side payment would risk a double charge.
	if snapshot.ProviderPaymentID != nil {
		existing, err := c.gateway.GetPayment(ctx, *snapshot.ProviderPaymentID)
		if err != nil {
			return nil, errs.Mark(err, ErrGatewayUnavailable)
		}
		if existing.Status == PaymentStatusPending {
			return &StartPaymentResult{
				PaymentID:  existing.ID,
				PayableRef: existing.PayableRef,
				Reused:     true,
			}, nil
		}
		if existing.Status == PaymentStatusPaid {
			// The webhook may still be in flight; reconcile now rather than
			// opening a second payment for a settled order.
			if err := c.Reconcile(ctx, existing.ID); err != nil {
				return nil, err
			}
			return nil, ErrOrderAlreadyPaid
		}
	}

	payment, err := c.gateway.CreatePayment(ctx, buildPaymentRequest(snapshot, items))
	if err != nil {
		// The order stays pending with no reference; the shopper can retry
		// without re-reserving.
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().AttachPaymentRef(ctx, tx.DB(), orderID, payment.Reference, payment.ID)
	})
	if err != nil {
		return nil, err
	}

	return &StartPaymentResult{
		PaymentID:  payment.ID,
		PayableRef: payment.PayableRef,
	}, nil
}

func (c *paymentCommandsImpl) Reconcile(ctx context.Context, providerPaymentID string) error {
	payment, err := c.gateway.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}

	var snapshot *shared.OrderSnapshot
	err = c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		snapshot, err = c.orders.FindByPaymentRef(ctx, dbtx, payment.Reference)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Soft failure: nothing on our side matches this payment. The
			// caller is an external retrying system, so absorb it.
			slog.Warn("reconcile: no order for payment reference",
				"provider_payment_id", providerPaymentID,
				"reference", payment.Reference)
			return nil
		}
		return err
	}

	var target order.Status
	switch payment.Status {
	case PaymentStatusPaid:
		target = order.StatusPaid
	case PaymentStatusCancelled:
		target = order.StatusCancelled
	default:
		return nil
	}

	if order.Status(snapshot.Status) == target {
		// Idempotent replay of a webhook we already applied.
		return nil
	}

	flipped := false
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		flipped = false

		ok, err := tx.Orders().UpdateStatusIfPending(ctx, tx.DB(), snapshot.ID, target)
		if err != nil {
			return err
		}
		if !ok {
			// Someone else (sweeper, a concurrent webhook) got there first.
			return nil
		}

		switch target {
		case order.StatusPaid:
			if err := tx.Seats().MarkSoldByOrder(ctx, tx.DB(), snapshot.ID); err != nil {
				return err
			}
			if err := c.enqueueOrderPaidEmail(ctx, tx, snapshot); err != nil {
				return err
			}
		case order.StatusCancelled:
			if err := tx.Seats().ReleaseByOrder(ctx, tx.DB(), snapshot.ID); err != nil {
				return err
			}
		}

		flipped = true
		return nil
	})
	if err != nil {
		return err
	}

	// Ticket issuance is gated on the transaction that actually flipped the
	// status, so a replayed webhook can never issue twice.
	if flipped && target == order.StatusPaid {
		c.issueTickets(ctx, snapshot.ID)
	}

	return nil
}

func (c *paymentCommandsImpl) issueTickets(ctx context.Context, orderID uuid.UUID) {
	tickets, err := c.issuer.IssueTickets(ctx, orderID)
	if err != nil {
		// The order is paid; issuance is retried out of band by operations.
		slog.Error("ticket issuance failed", "order_id", orderID, "error", err.Error())
		return
	}

	codes := make([]string, 0, len(tickets))
	for _, t := range tickets {
		codes = append(codes, t.Code)
	}
	payload, err := json.Marshal(map[string]any{
		"order_id":     orderID,
		"type":         "tickets_issued",
		"ticket_codes": codes,
	})
	if err != nil {
		slog.Error("failed to marshal ticket payload", "order_id", orderID, "error", err.Error())
		return
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "tickets_issued", payload, c.clock.Now())
	})
	if err != nil {
		slog.Error("failed to enqueue ticket email", "order_id", orderID, "error", err.Error())
	}
}

func (c *paymentCommandsImpl) enqueueOrderPaidEmail(ctx context.Context, tx shared.Tx, snapshot *shared.OrderSnapshot) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":    snapshot.ID,
		"user_id":     snapshot.UserID,
		"type":        "order_paid",
		"total_cents": snapshot.TotalCents,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "order_paid", payload, c.clock.Now())
}

func buildPaymentRequest(snapshot *shared.OrderSnapshot, items []shared.OrderItemSnapshot) CreatePaymentRequest {
	lines := make([]PaymentLine, 0, len(items))
	for _, item := range items {
		description := fmt.Sprintf("general admission x%d", item.Quantity)
		if item.SeatID != nil {
			description = "reserved seat"
		}
		lines = append(lines, PaymentLine{
			Description:    description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	return CreatePaymentRequest{
		Reference:   snapshot.ID.String(),
		AmountCents: snapshot.TotalCents,
		Currency:    "EUR",
		Description: fmt.Sprintf("order %s", snapshot.ID),
		Lines:       lines,
	}
}
