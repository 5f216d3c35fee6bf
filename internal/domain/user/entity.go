package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidRole  = errors.New("invalid role")
)

type Role string

const (
	RoleShopper  Role = "shopper"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleShopper, RoleOperator, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
	createdAt    time.Time
}

func NewUser(email, passwordHash string, role Role) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}, nil
}

func ReconstructUser(id uuid.UUID, email, passwordHash string, role Role, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
