package repository

import (
	"context"
	"time"

	"ticketline/internal/domain/inventory"
	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type HoldRepository struct{}

func NewHoldRepository() *HoldRepository {
	return &HoldRepository{}
}

const createHoldSQL = `
INSERT INTO holds (id, user_id, session_id, kind, seat_id, category_id, quantity, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *HoldRepository) Create(ctx context.Context, dbtx db.DBTX, hold *inventory.Hold) error {
	_, err := dbtx.Exec(ctx, createHoldSQL,
		pgconv.UUIDToPgtype(hold.ID()),
		pgconv.UUIDToPgtype(hold.UserID()),
		pgconv.UUIDToPgtype(hold.SessionID()),
		hold.Kind().String(),
		pgconv.UUIDPtrToPgtype(hold.SeatID()),
		pgconv.UUIDToPgtype(hold.CategoryID()),
		hold.Quantity(),
		pgconv.TimeToPgtype(hold.CreatedAt()),
		pgconv.TimeToPgtype(hold.ExpiresAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create hold", err)
	}
	return nil
}

const deleteHoldSQL = `DELETE FROM holds WHERE id = $1`

func (r *HoldRepository) Delete(ctx context.Context, dbtx db.DBTX, holdID uuid.UUID) (int64, error) {
	tag, err := dbtx.Exec(ctx, deleteHoldSQL, pgconv.UUIDToPgtype(holdID))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete hold", err)
	}
	return tag.RowsAffected(), nil
}

const holdColumns = `id, user_id, session_id, kind, seat_id, category_id, quantity, created_at, expires_at`

const findHoldByIDSQL = `SELECT ` + holdColumns + ` FROM holds WHERE id = $1`

func (r *HoldRepository) FindByID(ctx context.Context, dbtx db.DBTX, holdID uuid.UUID) (*shared.HoldSnapshot, error) {
	row := dbtx.QueryRow(ctx, findHoldByIDSQL, pgconv.UUIDToPgtype(holdID))
	snapshot, err := scanHold(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hold not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get hold", err)
	}
	return snapshot, nil
}

const findLiveHoldsSQL = `
SELECT ` + holdColumns + `
FROM holds
WHERE user_id = $1 AND session_id = $2 AND expires_at > $3
ORDER BY created_at
FOR UPDATE`

// FindLiveByUserSession locks the rows so a concurrent sweep cannot reap a
// hold that checkout is in the middle of converting.
func (r *HoldRepository) FindLiveByUserSession(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID, now time.Time) ([]shared.HoldSnapshot, error) {
	rows, err := dbtx.Query(ctx, findLiveHoldsSQL,
		pgconv.UUIDToPgtype(userID),
		pgconv.UUIDToPgtype(sessionID),
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find live holds", err)
	}
	defer rows.Close()

	var holds []shared.HoldSnapshot
	for rows.Next() {
		snapshot, err := scanHold(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}
		holds = append(holds, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}

	return holds, nil
}

const deleteHoldsByIDsSQL = `DELETE FROM holds WHERE id = ANY($1)`

func (r *HoldRepository) DeleteByIDs(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) error {
	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgconv.UUIDToPgtype(id)
	}
	if _, err := dbtx.Exec(ctx, deleteHoldsByIDsSQL, pgIDs); err != nil {
		return infra.WrapRepoErr("failed to delete holds", err)
	}
	return nil
}

const sumLiveQuantitySQL = `
SELECT COALESCE(SUM(quantity), 0)
FROM holds
WHERE user_id = $1 AND session_id = $2 AND expires_at > $3`

func (r *HoldRepository) SumLiveQuantity(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID, now time.Time) (int, error) {
	var sum int
	err := dbtx.QueryRow(ctx, sumLiveQuantitySQL,
		pgconv.UUIDToPgtype(userID),
		pgconv.UUIDToPgtype(sessionID),
		pgconv.TimeToPgtype(now),
	).Scan(&sum)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum live hold quantity", err)
	}
	return sum, nil
}

const findExpiredHoldsSQL = `
SELECT ` + holdColumns + `
FROM holds
WHERE expires_at <= $1
ORDER BY expires_at
LIMIT $2`

func (r *HoldRepository) FindExpired(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]shared.HoldSnapshot, error) {
	rows, err := dbtx.Query(ctx, findExpiredHoldsSQL, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired holds", err)
	}
	defer rows.Close()

	var holds []shared.HoldSnapshot
	for rows.Next() {
		snapshot, err := scanHold(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}
		holds = append(holds, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}

	return holds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHold(row rowScanner) (*shared.HoldSnapshot, error) {
	var (
		id, user, session, category pgtype.UUID
		seat                        pgtype.UUID
		kind                        pgtype.Text
		quantity                    int
		createdAt, expiresAt        pgtype.Timestamptz
	)
	if err := row.Scan(&id, &user, &session, &kind, &seat, &category, &quantity, &createdAt, &expiresAt); err != nil {
		return nil, err
	}
	return &shared.HoldSnapshot{
		ID:         uuid.UUID(id.Bytes),
		UserID:     uuid.UUID(user.Bytes),
		SessionID:  uuid.UUID(session.Bytes),
		Kind:       kind.String,
		SeatID:     pgconv.UUIDPtrFromPgtype(seat),
		CategoryID: uuid.UUID(category.Bytes),
		Quantity:   quantity,
		CreatedAt:  pgconv.TimeFromPgtype(createdAt),
		ExpiresAt:  pgconv.TimeFromPgtype(expiresAt),
	}, nil
}
