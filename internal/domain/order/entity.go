package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrAlreadyPaid   = errors.New("order is already paid")
	ErrNotPending    = errors.New("order is not pending")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Order is the checkout aggregate. It is created pending inside the same
// transaction that reserves its inventory units; once it leaves pending it is
// immutable apart from payment-reference bookkeeping.
type Order struct {
	id                uuid.UUID
	userID            uuid.UUID
	sessionID         uuid.UUID
	status            Status
	total             Money
	items             []*Item
	paymentRef        *string
	providerPaymentID *string
	createdAt         time.Time
	expiresAt         time.Time
}

func NewOrder(userID, sessionID uuid.UUID, items []*Item, now time.Time, ttl time.Duration) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var total Money
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return &Order{
		id:        uuid.New(),
		userID:    userID,
		sessionID: sessionID,
		status:    StatusPending,
		total:     total,
		items:     items,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}, nil
}

func ReconstructOrder(
	id, userID, sessionID uuid.UUID,
	status Status,
	total Money,
	items []*Item,
	paymentRef, providerPaymentID *string,
	createdAt, expiresAt time.Time,
) *Order {
	return &Order{
		id:                id,
		userID:            userID,
		sessionID:         sessionID,
		status:            status,
		total:             total,
		items:             items,
		paymentRef:        paymentRef,
		providerPaymentID: providerPaymentID,
		createdAt:         createdAt,
		expiresAt:         expiresAt,
	}
}

// MarkPaid flips pending -> paid. Any other starting state is rejected.
func (o *Order) MarkPaid() error {
	if o.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if !o.status.CanTransitionTo(StatusPaid) {
		return ErrNotPending
	}
	o.status = StatusPaid
	return nil
}

// Cancel flips pending -> cancelled. A paid order can never be cancelled.
func (o *Order) Cancel() error {
	if o.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if !o.status.CanTransitionTo(StatusCancelled) {
		return ErrNotPending
	}
	o.status = StatusCancelled
	return nil
}

// Expire flips pending -> expired, used by the sweeper once the order's
// expiry has passed.
func (o *Order) Expire() error {
	if o.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if !o.status.CanTransitionTo(StatusExpired) {
		return ErrNotPending
	}
	o.status = StatusExpired
	return nil
}

// AttachPaymentRef records the gateway's payable reference and payment id.
// Bookkeeping only; allowed regardless of lifecycle state.
func (o *Order) AttachPaymentRef(paymentRef, providerPaymentID string) {
	o.paymentRef = &paymentRef
	o.providerPaymentID = &providerPaymentID
}

func (o *Order) Overdue(now time.Time) bool {
	return o.status == StatusPending && now.After(o.expiresAt)
}

// SeatIDs lists the seats backing this order's items.
func (o *Order) SeatIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, item := range o.items {
		if item.SeatID() != nil {
			ids = append(ids, *item.SeatID())
		}
	}
	return ids
}

// TicketCount is the total quantity across all items.
func (o *Order) TicketCount() int {
	count := 0
	for _, item := range o.items {
		count += item.Quantity()
	}
	return count
}

func (o *Order) ID() uuid.UUID              { return o.id }
func (o *Order) UserID() uuid.UUID          { return o.userID }
func (o *Order) SessionID() uuid.UUID       { return o.sessionID }
func (o *Order) Status() Status             { return o.status }
func (o *Order) Total() Money               { return o.total }
func (o *Order) Items() []*Item             { return o.items }
func (o *Order) PaymentRef() *string        { return o.paymentRef }
func (o *Order) ProviderPaymentID() *string { return o.providerPaymentID }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) ExpiresAt() time.Time       { return o.expiresAt }
