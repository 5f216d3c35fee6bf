package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHoldQuantity = errors.New("hold quantity must be positive")
	ErrInvalidHoldKind     = errors.New("invalid hold kind")
)

// Hold is a time-limited claim on an inventory unit made before checkout.
// A seat hold pins one seat; a general hold carries a quantity against a
// category's counted capacity. The claim evaporates at ExpiresAt and the
// sweeper reaps it; it is not extended.
type Hold struct {
	id         uuid.UUID
	userID     uuid.UUID
	sessionID  uuid.UUID
	kind       HoldKind
	seatID     *uuid.UUID
	categoryID uuid.UUID
	quantity   int
	createdAt  time.Time
	expiresAt  time.Time
}

func NewSeatHold(userID, sessionID, seatID, categoryID uuid.UUID, now time.Time, ttl time.Duration) *Hold {
	id := seatID
	return &Hold{
		id:         uuid.New(),
		userID:     userID,
		sessionID:  sessionID,
		kind:       HoldKindSeat,
		seatID:     &id,
		categoryID: categoryID,
		quantity:   1,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}
}

func NewGeneralHold(userID, sessionID, categoryID uuid.UUID, quantity int, now time.Time, ttl time.Duration) (*Hold, error) {
	if quantity <= 0 {
		return nil, ErrInvalidHoldQuantity
	}
	return &Hold{
		id:         uuid.New(),
		userID:     userID,
		sessionID:  sessionID,
		kind:       HoldKindGeneral,
		categoryID: categoryID,
		quantity:   quantity,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}, nil
}

func ReconstructHold(
	id, userID, sessionID uuid.UUID,
	kind HoldKind,
	seatID *uuid.UUID,
	categoryID uuid.UUID,
	quantity int,
	createdAt, expiresAt time.Time,
) *Hold {
	return &Hold{
		id:         id,
		userID:     userID,
		sessionID:  sessionID,
		kind:       kind,
		seatID:     seatID,
		categoryID: categoryID,
		quantity:   quantity,
		createdAt:  createdAt,
		expiresAt:  expiresAt,
	}
}

func (h *Hold) Expired(now time.Time) bool {
	return now.After(h.expiresAt)
}

func (h *Hold) ID() uuid.UUID         { return h.id }
func (h *Hold) UserID() uuid.UUID     { return h.userID }
func (h *Hold) SessionID() uuid.UUID  { return h.sessionID }
func (h *Hold) Kind() HoldKind        { return h.kind }
func (h *Hold) SeatID() *uuid.UUID    { return h.seatID }
func (h *Hold) CategoryID() uuid.UUID { return h.categoryID }
func (h *Hold) Quantity() int         { return h.quantity }
func (h *Hold) CreatedAt() time.Time  { return h.createdAt }
func (h *Hold) ExpiresAt() time.Time  { return h.expiresAt }
