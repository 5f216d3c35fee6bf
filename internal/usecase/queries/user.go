package queries

import (
	"context"

	"ticketline/internal/usecase/shared"
)

type UserReadStore interface {
	FindByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error)
}
