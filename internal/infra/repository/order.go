package repository

import (
	"context"
	"time"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

const createOrderSQL = `
INSERT INTO orders (id, user_id, session_id, status, total_cents, payment_ref, provider_payment_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const createOrderItemSQL = `
INSERT INTO order_items (id, order_id, seat_id, category_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order) error {
	_, err := dbtx.Exec(ctx, createOrderSQL,
		pgconv.UUIDToPgtype(o.ID()),
		pgconv.UUIDToPgtype(o.UserID()),
		pgconv.UUIDToPgtype(o.SessionID()),
		o.Status().String(),
		o.Total().Cents(),
		pgconv.StringPtrToPgtype(o.PaymentRef()),
		pgconv.StringPtrToPgtype(o.ProviderPaymentID()),
		pgconv.TimeToPgtype(o.CreatedAt()),
		pgconv.TimeToPgtype(o.ExpiresAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := dbtx.Exec(ctx, createOrderItemSQL,
			pgconv.UUIDToPgtype(item.ID()),
			pgconv.UUIDToPgtype(o.ID()),
			pgconv.UUIDPtrToPgtype(item.SeatID()),
			pgconv.UUIDToPgtype(item.CategoryID()),
			item.Quantity(),
			item.UnitPrice().Cents(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return nil
}

const updateStatusIfPendingSQL = `
UPDATE orders SET status = $1 WHERE id = $2 AND status = 'pending'`

// UpdateStatusIfPending is a compare-and-swap: the row only flips when it is
// still pending at write time. The caller decides what a lost race means.
func (r *OrderRepository) UpdateStatusIfPending(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, status order.Status) (bool, error) {
	tag, err := dbtx.Exec(ctx, updateStatusIfPendingSQL, status.String(), pgconv.UUIDToPgtype(orderID))
	if err != nil {
		return false, infra.WrapRepoErr("failed to update order status", err)
	}
	return tag.RowsAffected() == 1, nil
}

const attachPaymentRefSQL = `
UPDATE orders SET payment_ref = $1, provider_payment_id = $2 WHERE id = $3`

func (r *OrderRepository) AttachPaymentRef(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, paymentRef, providerPaymentID string) error {
	tag, err := dbtx.Exec(ctx, attachPaymentRefSQL,
		pgconv.StringToPgtype(paymentRef),
		pgconv.StringToPgtype(providerPaymentID),
		pgconv.UUIDToPgtype(orderID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to attach payment reference", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

const orderColumns = `id, user_id, session_id, status, total_cents, payment_ref, provider_payment_id, created_at, expires_at`

const findOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (r *OrderRepository) FindByID(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) (*shared.OrderSnapshot, error) {
	return r.findOne(ctx, dbtx, findOrderByIDSQL, pgconv.UUIDToPgtype(orderID))
}

const findOrderByPaymentRefSQL = `SELECT ` + orderColumns + ` FROM orders WHERE payment_ref = $1`

func (r *OrderRepository) FindByPaymentRef(ctx context.Context, dbtx db.DBTX, paymentRef string) (*shared.OrderSnapshot, error) {
	return r.findOne(ctx, dbtx, findOrderByPaymentRefSQL, pgconv.StringToPgtype(paymentRef))
}

func (r *OrderRepository) findOne(ctx context.Context, dbtx db.DBTX, query string, arg any) (*shared.OrderSnapshot, error) {
	var (
		id, user, session    pgtype.UUID
		status               pgtype.Text
		totalCents           int64
		paymentRef, provider pgtype.Text
		createdAt, expiresAt pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, query, arg).
		Scan(&id, &user, &session, &status, &totalCents, &paymentRef, &provider, &createdAt, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order", err)
	}

	return &shared.OrderSnapshot{
		ID:                uuid.UUID(id.Bytes),
		UserID:            uuid.UUID(user.Bytes),
		SessionID:         uuid.UUID(session.Bytes),
		Status:            status.String,
		TotalCents:        totalCents,
		PaymentRef:        pgconv.StringPtrFromPgtype(paymentRef),
		ProviderPaymentID: pgconv.StringPtrFromPgtype(provider),
		CreatedAt:         pgconv.TimeFromPgtype(createdAt),
		ExpiresAt:         pgconv.TimeFromPgtype(expiresAt),
	}, nil
}

const itemsByOrderIDSQL = `
SELECT id, order_id, seat_id, category_id, quantity, unit_price_cents
FROM order_items
WHERE order_id = $1
ORDER BY id`

func (r *OrderRepository) ItemsByOrderID(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) ([]shared.OrderItemSnapshot, error) {
	rows, err := dbtx.Query(ctx, itemsByOrderIDSQL, pgconv.UUIDToPgtype(orderID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order items", err)
	}
	defer rows.Close()

	var items []shared.OrderItemSnapshot
	for rows.Next() {
		var (
			id, oid, category pgtype.UUID
			seat              pgtype.UUID
			quantity          int
			unitPriceCents    int64
		)
		if err := rows.Scan(&id, &oid, &seat, &category, &quantity, &unitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item row", err)
		}
		items = append(items, shared.OrderItemSnapshot{
			ID:             uuid.UUID(id.Bytes),
			OrderID:        uuid.UUID(oid.Bytes),
			SeatID:         pgconv.UUIDPtrFromPgtype(seat),
			CategoryID:     uuid.UUID(category.Bytes),
			Quantity:       quantity,
			UnitPriceCents: unitPriceCents,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item rows", err)
	}

	return items, nil
}

const findOverduePendingSQL = `
SELECT id FROM orders
WHERE status = 'pending' AND expires_at <= $1
ORDER BY expires_at
LIMIT $2`

func (r *OrderRepository) FindOverduePending(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := dbtx.Query(ctx, findOverduePendingSQL, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overdue orders", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order id", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order ids", err)
	}

	return ids, nil
}
