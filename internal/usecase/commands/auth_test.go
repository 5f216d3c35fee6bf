//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketline/internal/domain/user"
	"ticketline/internal/infra"
	"ticketline/internal/pkg/jwt"
	"ticketline/internal/pkg/password"
	"ticketline/internal/usecase/commands"
	"ticketline/internal/usecase/shared"
	queriesmock "ticketline/tests/mock/queries"
	sharedmock "ticketline/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthCommandsTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	uow       *sharedmock.MockUnitOfWork
	tx        *sharedmock.MockTx
	users     *sharedmock.MockUserRepository
	userReads *queriesmock.MockUserReadStore
	jwtSvc    *jwt.Service
	sut       commands.AuthCommands
}

func (s *AuthCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.tx = sharedmock.NewMockTx(s.mockCtrl)
	s.users = sharedmock.NewMockUserRepository(s.mockCtrl)
	s.userReads = queriesmock.NewMockUserReadStore(s.mockCtrl)
	s.jwtSvc = jwt.NewService("test-secret", time.Hour)

	s.tx.EXPECT().DB().Return(nil).AnyTimes()
	s.tx.EXPECT().Users().Return(s.users).AnyTimes()
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		}).AnyTimes()

	s.sut = commands.NewAuthCommands(s.uow, s.userReads, s.jwtSvc)
}

func (s *AuthCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthCommandsSuite(t *testing.T) {
	suite.Run(t, new(AuthCommandsTestSuite))
}

func (s *AuthCommandsTestSuite) TestRegister() {
	s.Run("success: new shopper account", func() {
		s.users.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), "shopper@example.com", gomock.Any(), "shopper").
			Return(nil)

		view, err := s.sut.Register(context.Background(), "shopper@example.com", "password123")
		s.NoError(err)
		s.Equal("shopper@example.com", view.Email)
		s.Equal("shopper", view.Role)
	})

	s.Run("error: duplicate email", func() {
		s.users.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("duplicate email", errors.New("23505"), infra.KindDuplicateKey))

		_, err := s.sut.Register(context.Background(), "taken@example.com", "password123")
		s.ErrorIs(err, commands.ErrEmailTaken)
	})
}

func (s *AuthCommandsTestSuite) TestLogin() {
	hash, err := password.Hash("password123")
	s.Require().NoError(err)
	userID := uuid.New()
	snapshot := &shared.UserSnapshot{
		ID:           userID,
		Email:        "shopper@example.com",
		PasswordHash: hash,
		Role:         "shopper",
	}

	s.Run("success: valid credentials yield a usable token", func() {
		s.userReads.EXPECT().FindByEmail(gomock.Any(), "shopper@example.com").Return(snapshot, nil)

		result, err := s.sut.Login(context.Background(), "shopper@example.com", "password123")
		s.NoError(err)
		s.Equal(userID, result.User.ID)

		gotID, gotRole, err := commands.NewTokenValidator(s.jwtSvc).ValidateToken(result.AccessToken)
		s.NoError(err)
		s.Equal(userID, gotID)
		s.Equal(user.RoleShopper, gotRole)
	})

	s.Run("error: wrong password", func() {
		s.userReads.EXPECT().FindByEmail(gomock.Any(), "shopper@example.com").Return(snapshot, nil)

		_, err := s.sut.Login(context.Background(), "shopper@example.com", "wrong")
		s.ErrorIs(err, commands.ErrInvalidCredentials)
	})

	s.Run("error: unknown email reports the same error as a bad password", func() {
		s.userReads.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, infra.WrapRepoErr("user not found", errors.New("no rows"), infra.KindNotFound))

		_, err := s.sut.Login(context.Background(), "nobody@example.com", "password123")
		s.ErrorIs(err, commands.ErrInvalidCredentials)
	})
}
