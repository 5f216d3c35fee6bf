package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads. Queries use their own richer
// read models.

type SeatSnapshot struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Label      string
	CategoryID uuid.UUID
	Status     string
	HolderID   *uuid.UUID
	PriceCents int64
}

type CategorySnapshot struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Name       string
	PriceCents int64
	Capacity   int
}

type HoldSnapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	SessionID  uuid.UUID
	Kind       string
	SeatID     *uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

type OrderSnapshot struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	SessionID         uuid.UUID
	Status            string
	TotalCents        int64
	PaymentRef        *string
	ProviderPaymentID *string
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

type OrderItemSnapshot struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	SeatID         *uuid.UUID
	CategoryID     uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
