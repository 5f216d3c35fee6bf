package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var ErrCapacityExhausted = errors.New("category capacity exhausted")

// TicketCategory is a price band within a session. For general admission the
// capacity is a hard ceiling on committed quantity; for reserved seating the
// capacity is zero and individual seats carry the inventory.
type TicketCategory struct {
	id         uuid.UUID
	sessionID  uuid.UUID
	name       string
	priceCents int64
	capacity   int
}

func ReconstructTicketCategory(id, sessionID uuid.UUID, name string, priceCents int64, capacity int) *TicketCategory {
	return &TicketCategory{
		id:         id,
		sessionID:  sessionID,
		name:       name,
		priceCents: priceCents,
		capacity:   capacity,
	}
}

// CanAccommodate reports whether quantity more units fit under the capacity
// ceiling given the currently committed count. The committed count must come
// from the same transaction that performs the reservation; a stale count
// defeats the oversell guarantee.
func (c *TicketCategory) CanAccommodate(committed, quantity int) bool {
	return committed+quantity <= c.capacity
}

func (c *TicketCategory) IsGeneralAdmission() bool {
	return c.capacity > 0
}

func (c *TicketCategory) ID() uuid.UUID        { return c.id }
func (c *TicketCategory) SessionID() uuid.UUID { return c.sessionID }
func (c *TicketCategory) Name() string         { return c.name }
func (c *TicketCategory) PriceCents() int64    { return c.priceCents }
func (c *TicketCategory) Capacity() int        { return c.capacity }
