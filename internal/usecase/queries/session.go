package queries

import (
	"context"

	"ticketline/internal/infra"
	"ticketline/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errs.New("session not found")

type SessionReadStore interface {
	ListSessions(ctx context.Context) ([]SessionView, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)
	SeatMap(ctx context.Context, sessionID uuid.UUID) ([]SeatView, error)
	// Categories includes remaining availability, derived the same way the
	// reservation path derives it (never from a cache).
	Categories(ctx context.Context, sessionID uuid.UUID) ([]CategoryView, error)
	ListHolds(ctx context.Context, userID, sessionID uuid.UUID) ([]HoldView, error)
}

type SessionQueries interface {
	ListSessions(ctx context.Context) ([]SessionView, error)
	SeatMap(ctx context.Context, sessionID uuid.UUID) ([]SeatView, error)
	Categories(ctx context.Context, sessionID uuid.UUID) ([]CategoryView, error)
	ListHolds(ctx context.Context, userID, sessionID uuid.UUID) ([]HoldView, error)
}

type sessionQueriesImpl struct {
	store SessionReadStore
}

func NewSessionQueries(store SessionReadStore) SessionQueries {
	return &sessionQueriesImpl{store: store}
}

func (q *sessionQueriesImpl) ListSessions(ctx context.Context) ([]SessionView, error) {
	return q.store.ListSessions(ctx)
}

func (q *sessionQueriesImpl) SeatMap(ctx context.Context, sessionID uuid.UUID) ([]SeatView, error) {
	if _, err := q.store.GetSession(ctx, sessionID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSessionNotFound)
		}
		return nil, err
	}
	return q.store.SeatMap(ctx, sessionID)
}

func (q *sessionQueriesImpl) Categories(ctx context.Context, sessionID uuid.UUID) ([]CategoryView, error) {
	if _, err := q.store.GetSession(ctx, sessionID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSessionNotFound)
		}
		return nil, err
	}
	return q.store.Categories(ctx, sessionID)
}

func (q *sessionQueriesImpl) ListHolds(ctx context.Context, userID, sessionID uuid.UUID) ([]HoldView, error) {
	return q.store.ListHolds(ctx, userID, sessionID)
}
