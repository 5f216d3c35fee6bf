package queries

import (
	"context"

	"ticketline/internal/infra"
	"ticketline/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrForbidden     = errs.New("not allowed to view this order")
)

type OrderReadStore interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderListView, error)
}

type OrderQueries interface {
	// GetByID returns the order scoped to its owner.
	GetByID(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderListView, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error) {
	view, err := q.store.GetByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrOrderNotFound)
		}
		return nil, err
	}
	if view.UserID != userID {
		return nil, ErrForbidden
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderListView, error) {
	return q.store.ListByUser(ctx, userID)
}
