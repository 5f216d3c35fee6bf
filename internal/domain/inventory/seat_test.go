//go:build unit

package inventory_test

import (
	"testing"

	"ticketline/internal/domain/inventory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeat(status inventory.SeatStatus) *inventory.Seat {
	var holder *uuid.UUID
	if status != inventory.SeatAvailable {
		id := uuid.New()
		holder = &id
	}
	return inventory.ReconstructSeat(uuid.New(), uuid.New(), "A-12", uuid.New(), status, holder)
}

func TestSeatReserve(t *testing.T) {
	t.Run("available seat becomes reserved", func(t *testing.T) {
		seat := newSeat(inventory.SeatAvailable)
		userID := uuid.New()

		require.NoError(t, seat.Reserve(userID))
		assert.Equal(t, inventory.SeatReserved, seat.Status())
		require.NotNil(t, seat.HolderID())
		assert.Equal(t, userID, *seat.HolderID())
	})

	t.Run("reserved seat cannot be reserved again", func(t *testing.T) {
		seat := newSeat(inventory.SeatReserved)
		assert.ErrorIs(t, seat.Reserve(uuid.New()), inventory.ErrSeatNotAvailable)
	})

	t.Run("sold seat cannot be reserved", func(t *testing.T) {
		seat := newSeat(inventory.SeatSold)
		assert.ErrorIs(t, seat.Reserve(uuid.New()), inventory.ErrSeatNotAvailable)
	})
}

func TestSeatRelease(t *testing.T) {
	t.Run("reserved seat returns to the pool", func(t *testing.T) {
		seat := newSeat(inventory.SeatReserved)

		require.NoError(t, seat.Release())
		assert.Equal(t, inventory.SeatAvailable, seat.Status())
		assert.Nil(t, seat.HolderID())
	})

	t.Run("releasing an available seat is a no-op", func(t *testing.T) {
		seat := newSeat(inventory.SeatAvailable)
		require.NoError(t, seat.Release())
		assert.Equal(t, inventory.SeatAvailable, seat.Status())
	})

	t.Run("sold seat is never released", func(t *testing.T) {
		seat := newSeat(inventory.SeatSold)
		assert.ErrorIs(t, seat.Release(), inventory.ErrSeatAlreadySold)
		assert.Equal(t, inventory.SeatSold, seat.Status())
	})
}

func TestSeatMarkSold(t *testing.T) {
	t.Run("reserved seat becomes sold", func(t *testing.T) {
		seat := newSeat(inventory.SeatReserved)
		require.NoError(t, seat.MarkSold())
		assert.Equal(t, inventory.SeatSold, seat.Status())
	})

	t.Run("available seat cannot jump to sold", func(t *testing.T) {
		seat := newSeat(inventory.SeatAvailable)
		assert.ErrorIs(t, seat.MarkSold(), inventory.ErrSeatNotReserved)
	})

	t.Run("sold seat stays sold", func(t *testing.T) {
		seat := newSeat(inventory.SeatSold)
		assert.ErrorIs(t, seat.MarkSold(), inventory.ErrSeatNotReserved)
	})
}
