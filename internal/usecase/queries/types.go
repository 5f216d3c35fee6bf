package queries

import (
	"time"

	"github.com/google/uuid"
)

type HoldView struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	SessionID  uuid.UUID
	Kind       string
	SeatID     *uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	ExpiresAt  time.Time
}

type OrderItemView struct {
	ID             uuid.UUID
	SeatID         *uuid.UUID
	SeatLabel      *string
	CategoryID     uuid.UUID
	CategoryName   string
	Quantity       int
	UnitPriceCents int64
}

type OrderView struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	SessionID         uuid.UUID
	Status            string
	TotalCents        int64
	PaymentRef        *string
	ProviderPaymentID *string
	CreatedAt         time.Time
	ExpiresAt         time.Time
	Items             []OrderItemView
}

type OrderListView struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Status     string
	TotalCents int64
	CreatedAt  time.Time
}

type SessionView struct {
	ID       uuid.UUID
	Name     string
	Venue    string
	StartsAt time.Time
}

type SeatView struct {
	ID         uuid.UUID
	Label      string
	CategoryID uuid.UUID
	Status     string
}

type CategoryView struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Capacity   int
	Available  int
}

type UserView struct {
	ID        uuid.UUID
	Email     string
	Role      string
	CreatedAt time.Time
}
