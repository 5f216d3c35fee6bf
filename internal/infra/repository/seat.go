package repository

import (
	"context"

	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SeatRepository struct{}

func NewSeatRepository() *SeatRepository {
	return &SeatRepository{}
}

const reserveSeatSQL = `
UPDATE seats
SET status = 'reserved', holder_id = $1
WHERE id = $2 AND session_id = $3 AND status = 'available'`

// ReserveIfAvailable is conditional on the seat still being available at
// write time. Zero rows affected means another shopper committed first.
func (r *SeatRepository) ReserveIfAvailable(ctx context.Context, dbtx db.DBTX, seatID, sessionID, userID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, reserveSeatSQL,
		pgconv.UUIDToPgtype(userID),
		pgconv.UUIDToPgtype(seatID),
		pgconv.UUIDToPgtype(sessionID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve seat", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("seat is no longer available", nil, infra.KindConflict)
	}
	return nil
}

const releaseSeatSQL = `
UPDATE seats
SET status = 'available', holder_id = NULL
WHERE id = $1 AND status = 'reserved'`

// ReleaseIfReserved never touches a sold seat; releasing an already-available
// seat affects zero rows and is not an error.
func (r *SeatRepository) ReleaseIfReserved(ctx context.Context, dbtx db.DBTX, seatID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, releaseSeatSQL, pgconv.UUIDToPgtype(seatID)); err != nil {
		return infra.WrapRepoErr("failed to release seat", err)
	}
	return nil
}

const markSoldByOrderSQL = `
UPDATE seats
SET status = 'sold'
WHERE status = 'reserved'
  AND id IN (SELECT seat_id FROM order_items WHERE order_id = $1 AND seat_id IS NOT NULL)`

func (r *SeatRepository) MarkSoldByOrder(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, markSoldByOrderSQL, pgconv.UUIDToPgtype(orderID)); err != nil {
		return infra.WrapRepoErr("failed to mark order seats sold", err)
	}
	return nil
}

const releaseByOrderSQL = `
UPDATE seats
SET status = 'available', holder_id = NULL
WHERE status = 'reserved'
  AND id IN (SELECT seat_id FROM order_items WHERE order_id = $1 AND seat_id IS NOT NULL)`

func (r *SeatRepository) ReleaseByOrder(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, releaseByOrderSQL, pgconv.UUIDToPgtype(orderID)); err != nil {
		return infra.WrapRepoErr("failed to release order seats", err)
	}
	return nil
}

const findSeatsBySessionSQL = `
SELECT s.id, s.session_id, s.label, s.category_id, s.status, s.holder_id, c.price_cents
FROM seats s
JOIN ticket_categories c ON c.id = s.category_id
WHERE s.session_id = $1 AND s.id = ANY($2)`

func (r *SeatRepository) FindBySession(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID, ids []uuid.UUID) ([]shared.SeatSnapshot, error) {
	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgconv.UUIDToPgtype(id)
	}

	rows, err := dbtx.Query(ctx, findSeatsBySessionSQL, pgconv.UUIDToPgtype(sessionID), pgIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find seats", err)
	}
	defer rows.Close()

	var seats []shared.SeatSnapshot
	for rows.Next() {
		var (
			id, session, category pgtype.UUID
			holder                pgtype.UUID
			label, status         pgtype.Text
			priceCents            int64
		)
		if err := rows.Scan(&id, &session, &label, &category, &status, &holder, &priceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		seats = append(seats, shared.SeatSnapshot{
			ID:         uuid.UUID(id.Bytes),
			SessionID:  uuid.UUID(session.Bytes),
			Label:      label.String,
			CategoryID: uuid.UUID(category.Bytes),
			Status:     status.String,
			HolderID:   pgconv.UUIDPtrFromPgtype(holder),
			PriceCents: priceCents,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat rows", err)
	}

	return seats, nil
}
