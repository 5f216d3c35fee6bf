package builder

import (
	"time"

	"ticketline/internal/domain/order"

	"github.com/google/uuid"
)

// OrderBuilder assembles a pending order with sensible defaults: one
// seat-backed item priced at 5000 cents and a 15 minute expiry.
type OrderBuilder struct {
	userID    uuid.UUID
	sessionID uuid.UUID
	items     []*order.Item
	now       time.Time
	ttl       time.Duration
}

func NewOrderBuilder() *OrderBuilder {
	price := mustMoney(5000)
	return &OrderBuilder{
		userID:    uuid.New(),
		sessionID: uuid.New(),
		items:     []*order.Item{order.NewSeatItem(uuid.New(), uuid.New(), price)},
		now:       time.Now(),
		ttl:       15 * time.Minute,
	}
}

func (b *OrderBuilder) WithUserID(id uuid.UUID) *OrderBuilder {
	b.userID = id
	return b
}

func (b *OrderBuilder) WithSessionID(id uuid.UUID) *OrderBuilder {
	b.sessionID = id
	return b
}

func (b *OrderBuilder) WithNoItems() *OrderBuilder {
	b.items = nil
	return b
}

func (b *OrderBuilder) WithSeatItem(priceCents int64) *OrderBuilder {
	b.items = append(b.items, order.NewSeatItem(uuid.New(), uuid.New(), mustMoney(priceCents)))
	return b
}

func (b *OrderBuilder) WithCategoryItem(quantity int, priceCents int64) *OrderBuilder {
	item, err := order.NewCategoryItem(uuid.New(), quantity, mustMoney(priceCents))
	if err != nil {
		panic(err)
	}
	b.items = append(b.items, item)
	return b
}

func (b *OrderBuilder) WithOnlyCategoryItem(quantity int, priceCents int64) *OrderBuilder {
	b.items = nil
	return b.WithCategoryItem(quantity, priceCents)
}

func (b *OrderBuilder) WithNow(now time.Time) *OrderBuilder {
	b.now = now
	return b
}

func (b *OrderBuilder) WithTTL(ttl time.Duration) *OrderBuilder {
	b.ttl = ttl
	return b
}

func (b *OrderBuilder) Build() (*order.Order, error) {
	return order.NewOrder(b.userID, b.sessionID, b.items, b.now, b.ttl)
}

func mustMoney(cents int64) order.Money {
	m, err := order.NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}
