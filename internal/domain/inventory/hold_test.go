//go:build unit

package inventory_test

import (
	"testing"
	"time"

	"ticketline/internal/domain/inventory"
	"ticketline/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatHold(t *testing.T) {
	hold, err := builder.NewHoldBuilder().Build()
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, hold.ID())
	assert.Equal(t, inventory.HoldKindSeat, hold.Kind())
	assert.NotNil(t, hold.SeatID())
	assert.Equal(t, 1, hold.Quantity())
}

func TestGeneralHold(t *testing.T) {
	t.Run("carries the requested quantity", func(t *testing.T) {
		hold, err := builder.NewHoldBuilder().General(4).Build()
		require.NoError(t, err)

		assert.Equal(t, inventory.HoldKindGeneral, hold.Kind())
		assert.Nil(t, hold.SeatID())
		assert.Equal(t, 4, hold.Quantity())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := builder.NewHoldBuilder().General(0).Build()
		assert.ErrorIs(t, err, inventory.ErrInvalidHoldQuantity)

		_, err = builder.NewHoldBuilder().General(-1).Build()
		assert.ErrorIs(t, err, inventory.ErrInvalidHoldQuantity)
	})
}

func TestHoldExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hold, err := builder.NewHoldBuilder().WithNow(now).WithTTL(10 * time.Minute).Build()
	require.NoError(t, err)

	assert.False(t, hold.Expired(now))
	// The boundary instant itself is still live.
	assert.False(t, hold.Expired(now.Add(10*time.Minute)))
	assert.True(t, hold.Expired(now.Add(10*time.Minute+time.Nanosecond)))
}
