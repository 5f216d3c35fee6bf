package commands

import (
	"context"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound    = errs.New("order not found")
	ErrOrderForbidden   = errs.New("order belongs to another user")
	ErrOrderAlreadyPaid = errs.New("order is already paid")
	ErrOrderNotPending  = errs.New("order is not pending")
)

type OrderCommands interface {
	// Cancel moves a pending order to cancelled and frees its seats. A paid
	// order is never cancellable.
	Cancel(ctx context.Context, orderID, userID uuid.UUID) error
	// CancelByOperator is the back-office variant without the ownership check.
	CancelByOperator(ctx context.Context, orderID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewOrderCommands(uow shared.UnitOfWork) OrderCommands {
	return &orderCommandsImpl{uow: uow}
}

func (c *orderCommandsImpl) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	return c.cancel(ctx, orderID, &userID)
}

func (c *orderCommandsImpl) CancelByOperator(ctx context.Context, orderID uuid.UUID) error {
	return c.cancel(ctx, orderID, nil)
}

func (c *orderCommandsImpl) cancel(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Orders().FindByID(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return err
		}
		if userID != nil && snapshot.UserID != *userID {
			return ErrOrderForbidden
		}

		flipped, err := tx.Orders().UpdateStatusIfPending(ctx, tx.DB(), orderID, order.StatusCancelled)
		if err != nil {
			return err
		}
		if !flipped {
			// Lost the race; re-read to report what actually happened.
			current, err := tx.Orders().FindByID(ctx, tx.DB(), orderID)
			if err != nil {
				return err
			}
			switch order.Status(current.Status) {
			case order.StatusPaid:
				return ErrOrderAlreadyPaid
			case order.StatusCancelled:
				return nil
			default:
				return ErrOrderNotPending
			}
		}

		// An order leaving pending non-paid must not strand seats in
		// reserved.
		return tx.Seats().ReleaseByOrder(ctx, tx.DB(), orderID)
	})
}
