package repository

import (
	"context"
	"errors"

	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const createUserSQL = `
INSERT INTO users (id, email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, now())`

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, id uuid.UUID, email, passwordHash, role string) error {
	_, err := dbtx.Exec(ctx, createUserSQL, pgconv.UUIDToPgtype(id), email, passwordHash, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}
