package repository

import (
	"context"
	"time"

	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

const categoryColumns = `id, session_id, name, price_cents, capacity`

const findCategoryForUpdateSQL = `
SELECT ` + categoryColumns + ` FROM ticket_categories WHERE id = $1 FOR UPDATE`

// FindByIDForUpdate takes a row lock so concurrent capacity checks against
// the same category serialize instead of both reading a stale committed
// count.
func (r *CategoryRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, categoryID uuid.UUID) (*shared.CategorySnapshot, error) {
	return r.findByID(ctx, dbtx, findCategoryForUpdateSQL, categoryID)
}

const findCategorySQL = `
SELECT ` + categoryColumns + ` FROM ticket_categories WHERE id = $1`

func (r *CategoryRepository) FindByID(ctx context.Context, dbtx db.DBTX, categoryID uuid.UUID) (*shared.CategorySnapshot, error) {
	return r.findByID(ctx, dbtx, findCategorySQL, categoryID)
}

func (r *CategoryRepository) findByID(ctx context.Context, dbtx db.DBTX, query string, categoryID uuid.UUID) (*shared.CategorySnapshot, error) {
	var (
		id, session pgtype.UUID
		name        pgtype.Text
		priceCents  int64
		capacity    int
	)
	err := dbtx.QueryRow(ctx, query, pgconv.UUIDToPgtype(categoryID)).
		Scan(&id, &session, &name, &priceCents, &capacity)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get category", err)
	}

	return &shared.CategorySnapshot{
		ID:         uuid.UUID(id.Bytes),
		SessionID:  uuid.UUID(session.Bytes),
		Name:       name.String,
		PriceCents: priceCents,
		Capacity:   capacity,
	}, nil
}

// The committed count is derived, never stored: live holds plus items of
// orders that are pending or paid. Cancelled and expired orders fall out of
// the sum on their own.
const committedQuantitySQL = `
SELECT
	COALESCE((SELECT SUM(h.quantity) FROM holds h
		WHERE h.category_id = $1 AND h.expires_at > $2), 0)
	+
	COALESCE((SELECT SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.category_id = $1 AND o.status IN ('pending', 'paid')), 0)`

func (r *CategoryRepository) CommittedQuantity(ctx context.Context, dbtx db.DBTX, categoryID uuid.UUID, now time.Time) (int, error) {
	var committed int
	err := dbtx.QueryRow(ctx, committedQuantitySQL,
		pgconv.UUIDToPgtype(categoryID),
		pgconv.TimeToPgtype(now),
	).Scan(&committed)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to compute committed quantity", err)
	}
	return committed, nil
}
