package shared

import (
	"context"
	"time"

	"ticketline/internal/domain/inventory"
	"ticketline/internal/domain/order"
	"ticketline/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Seats() SeatRepository
	Holds() HoldRepository
	Categories() CategoryRepository
	Orders() OrderRepository
	Notifications() NotificationRepository
	Users() UserRepository
	DB() db.DBTX
}

type SeatRepository interface {
	// ReserveIfAvailable performs the conditional write that guards against
	// double-sale: it flips the seat to reserved only when it is still
	// available at write time and reports KindConflict otherwise.
	ReserveIfAvailable(ctx context.Context, db db.DBTX, seatID, sessionID, userID uuid.UUID) error
	// ReleaseIfReserved returns the seat to the pool; sold seats are never
	// touched and an already-available seat is a no-op.
	ReleaseIfReserved(ctx context.Context, db db.DBTX, seatID uuid.UUID) error
	MarkSoldByOrder(ctx context.Context, db db.DBTX, orderID uuid.UUID) error
	ReleaseByOrder(ctx context.Context, db db.DBTX, orderID uuid.UUID) error
	FindBySession(ctx context.Context, db db.DBTX, sessionID uuid.UUID, ids []uuid.UUID) ([]SeatSnapshot, error)
}

type HoldRepository interface {
	Create(ctx context.Context, db db.DBTX, hold *inventory.Hold) error
	// Delete reports the number of rows removed so release stays idempotent.
	Delete(ctx context.Context, db db.DBTX, holdID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, db db.DBTX, holdID uuid.UUID) (*HoldSnapshot, error)
	FindLiveByUserSession(ctx context.Context, db db.DBTX, userID, sessionID uuid.UUID, now time.Time) ([]HoldSnapshot, error)
	DeleteByIDs(ctx context.Context, db db.DBTX, ids []uuid.UUID) error
	SumLiveQuantity(ctx context.Context, db db.DBTX, userID, sessionID uuid.UUID, now time.Time) (int, error)
	FindExpired(ctx context.Context, db db.DBTX, now time.Time, limit int) ([]HoldSnapshot, error)
}

type CategoryRepository interface {
	// FindByIDForUpdate locks the category row so concurrent capacity checks
	// serialize on it.
	FindByIDForUpdate(ctx context.Context, db db.DBTX, categoryID uuid.UUID) (*CategorySnapshot, error)
	FindByID(ctx context.Context, db db.DBTX, categoryID uuid.UUID) (*CategorySnapshot, error)
	// CommittedQuantity recomputes the category's committed count from live
	// holds plus orders that are pending or paid.
	CommittedQuantity(ctx context.Context, db db.DBTX, categoryID uuid.UUID, now time.Time) (int, error)
}

type OrderRepository interface {
	Create(ctx context.Context, db db.DBTX, o *order.Order) error
	// UpdateStatusIfPending is the compare-and-swap every lifecycle
	// transition goes through; it reports whether this call flipped the row.
	UpdateStatusIfPending(ctx context.Context, db db.DBTX, orderID uuid.UUID, status order.Status) (bool, error)
	AttachPaymentRef(ctx context.Context, db db.DBTX, orderID uuid.UUID, paymentRef, providerPaymentID string) error
	FindByID(ctx context.Context, db db.DBTX, orderID uuid.UUID) (*OrderSnapshot, error)
	FindByPaymentRef(ctx context.Context, db db.DBTX, paymentRef string) (*OrderSnapshot, error)
	ItemsByOrderID(ctx context.Context, db db.DBTX, orderID uuid.UUID) ([]OrderItemSnapshot, error)
	FindOverduePending(ctx context.Context, db db.DBTX, now time.Time, limit int) ([]uuid.UUID, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, db db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, db db.DBTX, id uuid.UUID, email, passwordHash, role string) error
}
