package order

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidItemQuantity = errors.New("item quantity must be positive")
	ErrItemVariantConflict = errors.New("item must reference either a seat or a category quantity")
)

// Item is one order line: either a specific seat or a quantity against a
// general-admission category. The unit price is captured when the order is
// created and never re-read from the live category, so later price edits do
// not alter an existing order.
type Item struct {
	id             uuid.UUID
	seatID         *uuid.UUID
	categoryID     uuid.UUID
	quantity       int
	unitPriceCents Money
}

func NewSeatItem(seatID, categoryID uuid.UUID, unitPrice Money) *Item {
	id := seatID
	return &Item{
		id:             uuid.New(),
		seatID:         &id,
		categoryID:     categoryID,
		quantity:       1,
		unitPriceCents: unitPrice,
	}
}

func NewCategoryItem(categoryID uuid.UUID, quantity int, unitPrice Money) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidItemQuantity
	}
	return &Item{
		id:             uuid.New(),
		categoryID:     categoryID,
		quantity:       quantity,
		unitPriceCents: unitPrice,
	}, nil
}

func ReconstructItem(id uuid.UUID, seatID *uuid.UUID, categoryID uuid.UUID, quantity int, unitPrice Money) *Item {
	return &Item{
		id:             id,
		seatID:         seatID,
		categoryID:     categoryID,
		quantity:       quantity,
		unitPriceCents: unitPrice,
	}
}

func (i *Item) IsSeatBacked() bool {
	return i.seatID != nil
}

func (i *Item) Subtotal() Money {
	return i.unitPriceCents.MultiplyBy(i.quantity)
}

func (i *Item) ID() uuid.UUID         { return i.id }
func (i *Item) SeatID() *uuid.UUID    { return i.seatID }
func (i *Item) CategoryID() uuid.UUID { return i.categoryID }
func (i *Item) Quantity() int         { return i.quantity }
func (i *Item) UnitPrice() Money      { return i.unitPriceCents }
