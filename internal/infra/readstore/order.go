package readstore

import (
	"context"

	"ticketline/internal/infra"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderReadStore struct {
	pool *pgxpool.Pool
}

func NewOrderReadStore(pool *pgxpool.Pool) *OrderReadStore {
	return &OrderReadStore{pool: pool}
}

const getOrderSQL = `
SELECT id, user_id, session_id, status, total_cents, payment_ref, provider_payment_id, created_at, expires_at
FROM orders
WHERE id = $1`

const getOrderItemsSQL = `
SELECT oi.id, oi.seat_id, s.label, oi.category_id, c.name, oi.quantity, oi.unit_price_cents
FROM order_items oi
JOIN ticket_categories c ON c.id = oi.category_id
LEFT JOIN seats s ON s.id = oi.seat_id
WHERE oi.order_id = $1
ORDER BY oi.id`

func (r *OrderReadStore) GetByID(ctx context.Context, orderID uuid.UUID) (*queries.OrderView, error) {
	var (
		id, user, session    pgtype.UUID
		status               pgtype.Text
		totalCents           int64
		paymentRef, provider pgtype.Text
		createdAt, expiresAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, getOrderSQL, pgconv.UUIDToPgtype(orderID)).
		Scan(&id, &user, &session, &status, &totalCents, &paymentRef, &provider, &createdAt, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order", err)
	}

	view := &queries.OrderView{
		ID:                uuid.UUID(id.Bytes),
		UserID:            uuid.UUID(user.Bytes),
		SessionID:         uuid.UUID(session.Bytes),
		Status:            status.String,
		TotalCents:        totalCents,
		PaymentRef:        pgconv.StringPtrFromPgtype(paymentRef),
		ProviderPaymentID: pgconv.StringPtrFromPgtype(provider),
		CreatedAt:         pgconv.TimeFromPgtype(createdAt),
		ExpiresAt:         pgconv.TimeFromPgtype(expiresAt),
	}

	rows, err := r.pool.Query(ctx, getOrderItemsSQL, pgconv.UUIDToPgtype(orderID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID, category pgtype.UUID
			seat             pgtype.UUID
			seatLabel        pgtype.Text
			categoryName     pgtype.Text
			quantity         int
			unitPriceCents   int64
		)
		if err := rows.Scan(&itemID, &seat, &seatLabel, &category, &categoryName, &quantity, &unitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item row", err)
		}
		view.Items = append(view.Items, queries.OrderItemView{
			ID:             uuid.UUID(itemID.Bytes),
			SeatID:         pgconv.UUIDPtrFromPgtype(seat),
			SeatLabel:      pgconv.StringPtrFromPgtype(seatLabel),
			CategoryID:     uuid.UUID(category.Bytes),
			CategoryName:   categoryName.String,
			Quantity:       quantity,
			UnitPriceCents: unitPriceCents,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item rows", err)
	}

	return view, nil
}

const listOrdersByUserSQL = `
SELECT id, session_id, status, total_cents, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC`

func (r *OrderReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]queries.OrderListView, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var views []queries.OrderListView
	for rows.Next() {
		var (
			id, session pgtype.UUID
			status      pgtype.Text
			totalCents  int64
			createdAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &session, &status, &totalCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		views = append(views, queries.OrderListView{
			ID:         uuid.UUID(id.Bytes),
			SessionID:  uuid.UUID(session.Bytes),
			Status:     status.String,
			TotalCents: totalCents,
			CreatedAt:  pgconv.TimeFromPgtype(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}

	return views, nil
}
