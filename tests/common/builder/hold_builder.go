package builder

import (
	"time"

	"ticketline/internal/domain/inventory"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

// HoldBuilder assembles holds and hold snapshots for reservation tests.
type HoldBuilder struct {
	userID     uuid.UUID
	sessionID  uuid.UUID
	seatID     *uuid.UUID
	categoryID uuid.UUID
	quantity   int
	now        time.Time
	ttl        time.Duration
}

func NewHoldBuilder() *HoldBuilder {
	seatID := uuid.New()
	return &HoldBuilder{
		userID:     uuid.New(),
		sessionID:  uuid.New(),
		seatID:     &seatID,
		categoryID: uuid.New(),
		quantity:   1,
		now:        time.Now(),
		ttl:        10 * time.Minute,
	}
}

func (b *HoldBuilder) WithUserID(id uuid.UUID) *HoldBuilder {
	b.userID = id
	return b
}

func (b *HoldBuilder) WithSessionID(id uuid.UUID) *HoldBuilder {
	b.sessionID = id
	return b
}

func (b *HoldBuilder) WithCategoryID(id uuid.UUID) *HoldBuilder {
	b.categoryID = id
	return b
}

// General switches the builder to a counted general-admission hold.
func (b *HoldBuilder) General(quantity int) *HoldBuilder {
	b.seatID = nil
	b.quantity = quantity
	return b
}

func (b *HoldBuilder) WithNow(now time.Time) *HoldBuilder {
	b.now = now
	return b
}

func (b *HoldBuilder) WithTTL(ttl time.Duration) *HoldBuilder {
	b.ttl = ttl
	return b
}

func (b *HoldBuilder) Build() (*inventory.Hold, error) {
	if b.seatID != nil {
		return inventory.NewSeatHold(b.userID, b.sessionID, *b.seatID, b.categoryID, b.now, b.ttl), nil
	}
	return inventory.NewGeneralHold(b.userID, b.sessionID, b.categoryID, b.quantity, b.now, b.ttl)
}

func (b *HoldBuilder) BuildSnapshot() shared.HoldSnapshot {
	kind := inventory.HoldKindSeat
	if b.seatID == nil {
		kind = inventory.HoldKindGeneral
	}
	return shared.HoldSnapshot{
		ID:         uuid.New(),
		UserID:     b.userID,
		SessionID:  b.sessionID,
		Kind:       kind.String(),
		SeatID:     b.seatID,
		CategoryID: b.categoryID,
		Quantity:   b.quantity,
		CreatedAt:  b.now,
		ExpiresAt:  b.now.Add(b.ttl),
	}
}
