package commands

import (
	"context"

	"ticketline/internal/domain/user"
	"ticketline/internal/infra"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/pkg/jwt"
	"ticketline/internal/pkg/password"
	"ticketline/internal/usecase/queries"
	"ticketline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrEmailTaken         = errs.New("email already registered")
)

type LoginResult struct {
	AccessToken string
	User        queries.UserView
}

type AuthCommands interface {
	Register(ctx context.Context, email, plainPassword string) (*queries.UserView, error)
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

// TokenValidator is what the auth middleware depends on.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, user.Role, error)
}

type authCommandsImpl struct {
	uow       shared.UnitOfWork
	userReads queries.UserReadStore
	jwtSvc    *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userReads queries.UserReadStore, jwtSvc *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:       uow,
		userReads: userReads,
		jwtSvc:    jwtSvc,
	}
}

func (c *authCommandsImpl) Register(ctx context.Context, email, plainPassword string) (*queries.UserView, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	entity, err := user.NewUser(email, hash, user.RoleShopper)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, tx.DB(), entity.ID(), entity.Email(), entity.PasswordHash(), entity.Role().String())
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrEmailTaken)
		}
		return nil, err
	}

	return &queries.UserView{
		ID:    entity.ID(),
		Email: entity.Email(),
		Role:  entity.Role().String(),
	}, nil
}

func (c *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	snapshot, err := c.userReads.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := password.Verify(snapshot.PasswordHash, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := c.jwtSvc.GenerateToken(snapshot.ID, user.Role(snapshot.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		User: queries.UserView{
			ID:        snapshot.ID,
			Email:     snapshot.Email,
			Role:      snapshot.Role,
			CreatedAt: snapshot.CreatedAt,
		},
	}, nil
}

type tokenValidatorImpl struct {
	jwtSvc *jwt.Service
}

func NewTokenValidator(jwtSvc *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtSvc: jwtSvc}
}

func (v *tokenValidatorImpl) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	claims, err := v.jwtSvc.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, user.Role(claims.Role), nil
}
