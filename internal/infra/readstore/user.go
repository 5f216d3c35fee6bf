package readstore

import (
	"context"
	"strings"

	"ticketline/internal/infra"
	"ticketline/internal/pkg/pgconv"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

const findUserByEmailSQL = `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE email = $1`

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error) {
	var (
		id             pgtype.UUID
		emailCol, hash pgtype.Text
		role           pgtype.Text
		createdAt      pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, findUserByEmailSQL, strings.ToLower(strings.TrimSpace(email))).
		Scan(&id, &emailCol, &hash, &role, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get user", err)
	}

	return &shared.UserSnapshot{
		ID:           uuid.UUID(id.Bytes),
		Email:        emailCol.String,
		PasswordHash: hash.String,
		Role:         role.String,
		CreatedAt:    pgconv.TimeFromPgtype(createdAt),
	}, nil
}
