package readstore

import (
	"context"

	"ticketline/internal/infra"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionReadStore struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func NewSessionReadStore(pool *pgxpool.Pool, clk clock.Clock) *SessionReadStore {
	return &SessionReadStore{pool: pool, clock: clk}
}

const listSessionsSQL = `
SELECT id, name, venue, starts_at
FROM sessions
WHERE starts_at > now()
ORDER BY starts_at`

func (r *SessionReadStore) ListSessions(ctx context.Context) ([]queries.SessionView, error) {
	rows, err := r.pool.Query(ctx, listSessionsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sessions", err)
	}
	defer rows.Close()

	var views []queries.SessionView
	for rows.Next() {
		view, err := scanSession(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan session row", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate session rows", err)
	}

	return views, nil
}

const getSessionSQL = `SELECT id, name, venue, starts_at FROM sessions WHERE id = $1`

func (r *SessionReadStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*queries.SessionView, error) {
	row := r.pool.QueryRow(ctx, getSessionSQL, pgconv.UUIDToPgtype(sessionID))
	view, err := scanSession(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get session", err)
	}
	return view, nil
}

const seatMapSQL = `
SELECT id, label, category_id, status
FROM seats
WHERE session_id = $1
ORDER BY label`

func (r *SessionReadStore) SeatMap(ctx context.Context, sessionID uuid.UUID) ([]queries.SeatView, error) {
	rows, err := r.pool.Query(ctx, seatMapSQL, pgconv.UUIDToPgtype(sessionID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load seat map", err)
	}
	defer rows.Close()

	var views []queries.SeatView
	for rows.Next() {
		var (
			id, category pgtype.UUID
			label        pgtype.Text
			status       pgtype.Text
		)
		if err := rows.Scan(&id, &label, &category, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		views = append(views, queries.SeatView{
			ID:         uuid.UUID(id.Bytes),
			Label:      label.String,
			CategoryID: uuid.UUID(category.Bytes),
			Status:     status.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat rows", err)
	}

	return views, nil
}

// Availability here is informational for browsing; the authoritative check
// happens again inside the reservation transaction.
const categoriesSQL = `
SELECT c.id, c.name, c.price_cents, c.capacity,
	COALESCE((SELECT SUM(h.quantity) FROM holds h
		WHERE h.category_id = c.id AND h.expires_at > $2), 0)
	+
	COALESCE((SELECT SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.category_id = c.id AND o.status IN ('pending', 'paid')), 0) AS committed
FROM ticket_categories c
WHERE c.session_id = $1
ORDER BY c.name`

func (r *SessionReadStore) Categories(ctx context.Context, sessionID uuid.UUID) ([]queries.CategoryView, error) {
	rows, err := r.pool.Query(ctx, categoriesSQL, pgconv.UUIDToPgtype(sessionID), pgconv.TimeToPgtype(r.clock.Now()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list categories", err)
	}
	defer rows.Close()

	var views []queries.CategoryView
	for rows.Next() {
		var (
			id         pgtype.UUID
			name       pgtype.Text
			priceCents int64
			capacity   int
			committed  int
		)
		if err := rows.Scan(&id, &name, &priceCents, &capacity, &committed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan category row", err)
		}
		available := capacity - committed
		if available < 0 {
			available = 0
		}
		views = append(views, queries.CategoryView{
			ID:         uuid.UUID(id.Bytes),
			Name:       name.String,
			PriceCents: priceCents,
			Capacity:   capacity,
			Available:  available,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate category rows", err)
	}

	return views, nil
}

const listHoldsSQL = `
SELECT id, user_id, session_id, kind, seat_id, category_id, quantity, expires_at
FROM holds
WHERE user_id = $1 AND session_id = $2 AND expires_at > $3
ORDER BY created_at`

func (r *SessionReadStore) ListHolds(ctx context.Context, userID, sessionID uuid.UUID) ([]queries.HoldView, error) {
	rows, err := r.pool.Query(ctx, listHoldsSQL,
		pgconv.UUIDToPgtype(userID),
		pgconv.UUIDToPgtype(sessionID),
		pgconv.TimeToPgtype(r.clock.Now()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list holds", err)
	}
	defer rows.Close()

	var views []queries.HoldView
	for rows.Next() {
		var (
			id, user, session, category pgtype.UUID
			seat                        pgtype.UUID
			kind                        pgtype.Text
			quantity                    int
			expiresAt                   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &user, &session, &kind, &seat, &category, &quantity, &expiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}
		views = append(views, queries.HoldView{
			ID:         uuid.UUID(id.Bytes),
			UserID:     uuid.UUID(user.Bytes),
			SessionID:  uuid.UUID(session.Bytes),
			Kind:       kind.String,
			SeatID:     pgconv.UUIDPtrFromPgtype(seat),
			CategoryID: uuid.UUID(category.Bytes),
			Quantity:   quantity,
			ExpiresAt:  pgconv.TimeFromPgtype(expiresAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}

	return views, nil
}

type sessionRowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row sessionRowScanner) (*queries.SessionView, error) {
	var (
		id       pgtype.UUID
		name     pgtype.Text
		venue    pgtype.Text
		startsAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &venue, &startsAt); err != nil {
		return nil, err
	}
	return &queries.SessionView{
		ID:       uuid.UUID(id.Bytes),
		Name:     name.String,
		Venue:    venue.String,
		StartsAt: startsAt.Time,
	}, nil
}
