package commands

import (
	"context"

	"ticketline/internal/domain/inventory"
	"ticketline/internal/domain/order"
	"ticketline/internal/infra"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/pkg/config"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/usecase/queries"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSeatNotFound        = errs.New("seat not found in session")
	ErrSeatConflict        = errs.New("seat is no longer available")
	ErrCapacityExceeded    = errs.New("category capacity exceeded")
	ErrTicketLimitExceeded = errs.New("ticket limit per order exceeded")
	ErrCategoryNotFound    = errs.New("category not found")
	ErrNotGeneralAdmission = errs.New("category is not general admission")
	ErrEmptyCart           = errs.New("no live holds to convert")
	ErrHoldForbidden       = errs.New("hold belongs to another user")
	ErrNoSeatsRequested    = errs.New("no seats requested")
)

type ReservationCommands interface {
	// ReserveSeats locks the named seats for the shopper, all or nothing.
	ReserveSeats(ctx context.Context, userID, sessionID uuid.UUID, seatIDs []uuid.UUID) ([]queries.HoldView, error)
	// ReserveGeneral claims counted capacity from a general-admission category.
	ReserveGeneral(ctx context.Context, userID, sessionID, categoryID uuid.UUID, quantity int) (*queries.HoldView, error)
	// ReleaseHold gives a hold back. Releasing a hold that no longer exists
	// is a no-op.
	ReleaseHold(ctx context.Context, holdID, userID uuid.UUID) error
	// Checkout converts the shopper's live holds for a session into one
	// pending order.
	Checkout(ctx context.Context, userID, sessionID uuid.UUID) (*queries.OrderView, error)
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.CheckoutConfig
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.CheckoutConfig) ReservationCommands {
	return &reservationCommandsImpl{
		uow:   uow,
		clock: clk,
		cfg:   cfg,
	}
}

func (c *reservationCommandsImpl) ReserveSeats(ctx context.Context, userID, sessionID uuid.UUID, seatIDs []uuid.UUID) ([]queries.HoldView, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsRequested
	}

	now := c.clock.Now()
	var views []queries.HoldView

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		seats, err := tx.Seats().FindBySession(ctx, tx.DB(), sessionID, seatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(seatIDs) {
			return ErrSeatNotFound
		}

		heldAlready, err := tx.Holds().SumLiveQuantity(ctx, tx.DB(), userID, sessionID, now)
		if err != nil {
			return err
		}
		if heldAlready+len(seatIDs) > c.cfg.MaxTicketsPerOrder {
			return ErrTicketLimitExceeded
		}

		views = views[:0]
		for _, seat := range seats {
			// Conditional write; a seat grabbed by another shopper rolls the
			// whole reservation back so no partial set survives.
			if err := tx.Seats().ReserveIfAvailable(ctx, tx.DB(), seat.ID, sessionID, userID); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(err, ErrSeatConflict)
				}
				return err
			}

			hold := inventory.NewSeatHold(userID, sessionID, seat.ID, seat.CategoryID, now, c.cfg.HoldTTL)
			if err := tx.Holds().Create(ctx, tx.DB(), hold); err != nil {
				return err
			}
			views = append(views, holdToView(hold))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (c *reservationCommandsImpl) ReserveGeneral(ctx context.Context, userID, sessionID, categoryID uuid.UUID, quantity int) (*queries.HoldView, error) {
	now := c.clock.Now()
	var view queries.HoldView

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Categories().FindByIDForUpdate(ctx, tx.DB(), categoryID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCategoryNotFound)
			}
			return err
		}
		if snapshot.SessionID != sessionID {
			return ErrCategoryNotFound
		}

		category := inventory.ReconstructTicketCategory(
			snapshot.ID, snapshot.SessionID, snapshot.Name, snapshot.PriceCents, snapshot.Capacity,
		)
		if !category.IsGeneralAdmission() {
			return ErrNotGeneralAdmission
		}

		heldAlready, err := tx.Holds().SumLiveQuantity(ctx, tx.DB(), userID, sessionID, now)
		if err != nil {
			return err
		}
		if heldAlready+quantity > c.cfg.MaxTicketsPerOrder {
			return ErrTicketLimitExceeded
		}

		// Recomputed under the category row lock, then checked in the same
		// transaction that inserts the hold. This is the oversell guard.
		committed, err := tx.Categories().CommittedQuantity(ctx, tx.DB(), categoryID, now)
		if err != nil {
			return err
		}
		if !category.CanAccommodate(committed, quantity) {
			return ErrCapacityExceeded
		}

		hold, err := inventory.NewGeneralHold(userID, sessionID, categoryID, quantity, now, c.cfg.HoldTTL)
		if err != nil {
			return err
		}
		if err := tx.Holds().Create(ctx, tx.DB(), hold); err != nil {
			return err
		}

		view = holdToView(hold)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

func (c *reservationCommandsImpl) ReleaseHold(ctx context.Context, holdID, userID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Holds().FindByID(ctx, tx.DB(), holdID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}
		if snapshot.UserID != userID {
			return ErrHoldForbidden
		}

		deleted, err := tx.Holds().Delete(ctx, tx.DB(), holdID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return nil
		}

		if snapshot.SeatID != nil {
			return tx.Seats().ReleaseIfReserved(ctx, tx.DB(), *snapshot.SeatID)
		}
		// General holds carry no stored counter; the committed count is
		// derived, so deleting the row is the whole release.
		return nil
	})
}

func (c *reservationCommandsImpl) Checkout(ctx context.Context, userID, sessionID uuid.UUID) (*queries.OrderView, error) {
	now := c.clock.Now()
	var view *queries.OrderView

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		holds, err := tx.Holds().FindLiveByUserSession(ctx, tx.DB(), userID, sessionID, now)
		if err != nil {
			return err
		}
		if len(holds) == 0 {
			return ErrEmptyCart
		}

		// Unit prices are snapshotted here; later category price edits must
		// not move an existing order's total.
		prices := make(map[uuid.UUID]order.Money)
		var items []*order.Item
		holdIDs := make([]uuid.UUID, 0, len(holds))

		for _, hold := range holds {
			price, ok := prices[hold.CategoryID]
			if !ok {
				snapshot, err := tx.Categories().FindByID(ctx, tx.DB(), hold.CategoryID)
				if err != nil {
					return err
				}
				price, err = order.NewMoney(snapshot.PriceCents)
				if err != nil {
					return err
				}
				prices[hold.CategoryID] = price
			}

			if hold.SeatID != nil {
				items = append(items, order.NewSeatItem(*hold.SeatID, hold.CategoryID, price))
			} else {
				item, err := order.NewCategoryItem(hold.CategoryID, hold.Quantity, price)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			holdIDs = append(holdIDs, hold.ID)
		}

		o, err := order.NewOrder(userID, sessionID, items, now, c.cfg.OrderTTL)
		if err != nil {
			return err
		}
		if err := tx.Orders().Create(ctx, tx.DB(), o); err != nil {
			return err
		}

		// The seats stay reserved; ownership passes from the holds to the
		// order items.
		if err := tx.Holds().DeleteByIDs(ctx, tx.DB(), holdIDs); err != nil {
			return err
		}

		view = orderToView(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func holdToView(h *inventory.Hold) queries.HoldView {
	return queries.HoldView{
		ID:         h.ID(),
		UserID:     h.UserID(),
		SessionID:  h.SessionID(),
		Kind:       h.Kind().String(),
		SeatID:     h.SeatID(),
		CategoryID: h.CategoryID(),
		Quantity:   h.Quantity(),
		ExpiresAt:  h.ExpiresAt(),
	}
}

func orderToView(o *order.Order) *queries.OrderView {
	items := make([]queries.OrderItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, queries.OrderItemView{
			ID:             item.ID(),
			SeatID:         item.SeatID(),
			CategoryID:     item.CategoryID(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		})
	}
	return &queries.OrderView{
		ID:         o.ID(),
		UserID:     o.UserID(),
		SessionID:  o.SessionID(),
		Status:     o.Status().String(),
		TotalCents: o.Total().Cents(),
		CreatedAt:  o.CreatedAt(),
		ExpiresAt:  o.ExpiresAt(),
		Items:      items,
	}
}
