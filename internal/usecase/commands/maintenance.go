package commands

import (
	"context"
	"log/slog"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

const sweepBatchSize = 200

// MaintenanceCommands backs the sweeper. Both passes are liveness work: a
// failed or skipped pass loses nothing, because the safety checks live in the
// reservation and reconciliation transactions.
type MaintenanceCommands interface {
	// ReleaseExpiredHolds reaps holds past their expiry and frees their
	// seats. One bad item does not abort the pass.
	ReleaseExpiredHolds(ctx context.Context) (int, error)
	// ExpireOverdueOrders flips overdue pending orders to expired via
	// compare-and-swap, so a payment landing in the same instant wins.
	ExpireOverdueOrders(ctx context.Context) (int, error)
}

type maintenanceCommandsImpl struct {
	uow    shared.UnitOfWork
	holds  shared.HoldRepository
	orders shared.OrderRepository
	clock  clock.Clock
}

func NewMaintenanceCommands(uow shared.UnitOfWork, holds shared.HoldRepository, orders shared.OrderRepository, clk clock.Clock) MaintenanceCommands {
	return &maintenanceCommandsImpl{
		uow:    uow,
		holds:  holds,
		orders: orders,
		clock:  clk,
	}
}

func (c *maintenanceCommandsImpl) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	now := c.clock.Now()

	var expired []shared.HoldSnapshot
	err := c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		expired, err = c.holds.FindExpired(ctx, dbtx, now, sweepBatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}

	released := 0
	for _, hold := range expired {
		// Per-item transactions keep lock hold times short and let the pass
		// survive individual failures.
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			deleted, err := tx.Holds().Delete(ctx, tx.DB(), hold.ID)
			if err != nil {
				return err
			}
			if deleted == 0 {
				// Checked out or released since we listed it.
				return nil
			}
			if hold.SeatID != nil {
				return tx.Seats().ReleaseIfReserved(ctx, tx.DB(), *hold.SeatID)
			}
			return nil
		})
		if err != nil {
			slog.Error("failed to release expired hold", "hold_id", hold.ID, "error", err.Error())
			continue
		}
		released++
	}

	return released, nil
}

func (c *maintenanceCommandsImpl) ExpireOverdueOrders(ctx context.Context) (int, error) {
	now := c.clock.Now()

	var overdue []uuid.UUID
	err := c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		overdue, err = c.orders.FindOverduePending(ctx, dbtx, now, sweepBatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, orderID := range overdue {
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			flipped, err := tx.Orders().UpdateStatusIfPending(ctx, tx.DB(), orderID, order.StatusExpired)
			if err != nil {
				return err
			}
			if !flipped {
				// Paid or cancelled between listing and here; leave it be.
				return nil
			}
			if err := tx.Seats().ReleaseByOrder(ctx, tx.DB(), orderID); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			slog.Error("failed to expire overdue order", "order_id", orderID, "error", err.Error())
		}
	}

	return expired, nil
}
