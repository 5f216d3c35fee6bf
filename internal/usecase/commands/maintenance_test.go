//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/usecase/commands"
	"ticketline/internal/usecase/shared"
	"ticketline/tests/common/builder"
	sharedmock "ticketline/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MaintenanceCommandsTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	holds    *sharedmock.MockHoldRepository
	orders   *sharedmock.MockOrderRepository
	seats    *sharedmock.MockSeatRepository
	sut      commands.MaintenanceCommands
}

func (s *MaintenanceCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.tx = sharedmock.NewMockTx(s.mockCtrl)
	s.holds = sharedmock.NewMockHoldRepository(s.mockCtrl)
	s.orders = sharedmock.NewMockOrderRepository(s.mockCtrl)
	s.seats = sharedmock.NewMockSeatRepository(s.mockCtrl)

	s.tx.EXPECT().DB().Return(nil).AnyTimes()
	s.tx.EXPECT().Holds().Return(s.holds).AnyTimes()
	s.tx.EXPECT().Orders().Return(s.orders).AnyTimes()
	s.tx.EXPECT().Seats().Return(s.seats).AnyTimes()

	s.uow.EXPECT().WithDB(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, db.DBTX) error) error {
			return fn(ctx, nil)
		}).AnyTimes()
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		}).AnyTimes()

	s.sut = commands.NewMaintenanceCommands(
		s.uow, s.holds, s.orders,
		clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	)
}

func (s *MaintenanceCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMaintenanceCommandsSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceCommandsTestSuite))
}

func (s *MaintenanceCommandsTestSuite) TestReleaseExpiredHolds() {
	s.Run("success: seat hold frees its seat, general hold just vanishes", func() {
		seatID := uuid.New()
		seatHold := builder.NewHoldBuilder().BuildSnapshot()
		seatHold.SeatID = &seatID
		generalHold := builder.NewHoldBuilder().General(3).BuildSnapshot()

		s.holds.EXPECT().FindExpired(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]shared.HoldSnapshot{seatHold, generalHold}, nil)
		s.holds.EXPECT().Delete(gomock.Any(), gomock.Any(), seatHold.ID).Return(int64(1), nil)
		s.seats.EXPECT().ReleaseIfReserved(gomock.Any(), gomock.Any(), seatID).Return(nil)
		s.holds.EXPECT().Delete(gomock.Any(), gomock.Any(), generalHold.ID).Return(int64(1), nil)

		released, err := s.sut.ReleaseExpiredHolds(context.Background())
		s.NoError(err)
		s.Equal(2, released)
	})

	s.Run("success: one failing item does not stop the pass", func() {
		bad := builder.NewHoldBuilder().General(1).BuildSnapshot()
		good := builder.NewHoldBuilder().General(2).BuildSnapshot()

		s.holds.EXPECT().FindExpired(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]shared.HoldSnapshot{bad, good}, nil)
		s.holds.EXPECT().Delete(gomock.Any(), gomock.Any(), bad.ID).Return(int64(0), errors.New("deadlock"))
		s.holds.EXPECT().Delete(gomock.Any(), gomock.Any(), good.ID).Return(int64(1), nil)

		released, err := s.sut.ReleaseExpiredHolds(context.Background())
		s.NoError(err)
		s.Equal(1, released)
	})

	s.Run("success: hold already gone still counts as handled", func() {
		gone := builder.NewHoldBuilder().BuildSnapshot()

		s.holds.EXPECT().FindExpired(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]shared.HoldSnapshot{gone}, nil)
		s.holds.EXPECT().Delete(gomock.Any(), gomock.Any(), gone.ID).Return(int64(0), nil)
		// No seat release when the row vanished first.

		released, err := s.sut.ReleaseExpiredHolds(context.Background())
		s.NoError(err)
		s.Equal(1, released)
	})

	s.Run("error: listing failure aborts the pass", func() {
		s.holds.EXPECT().FindExpired(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection lost"))

		_, err := s.sut.ReleaseExpiredHolds(context.Background())
		s.Error(err)
	})
}

func (s *MaintenanceCommandsTestSuite) TestExpireOverdueOrders() {
	s.Run("success: overdue pending orders expire and release seats", func() {
		orderA, orderB := uuid.New(), uuid.New()

		s.orders.EXPECT().FindOverduePending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]uuid.UUID{orderA, orderB}, nil)
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), orderA, order.StatusExpired).Return(true, nil)
		s.seats.EXPECT().ReleaseByOrder(gomock.Any(), gomock.Any(), orderA).Return(nil)
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), orderB, order.StatusExpired).Return(true, nil)
		s.seats.EXPECT().ReleaseByOrder(gomock.Any(), gomock.Any(), orderB).Return(nil)

		expired, err := s.sut.ExpireOverdueOrders(context.Background())
		s.NoError(err)
		s.Equal(2, expired)
	})

	s.Run("success: order paid between listing and flip is left alone", func() {
		orderID := uuid.New()

		s.orders.EXPECT().FindOverduePending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]uuid.UUID{orderID}, nil)
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), orderID, order.StatusExpired).Return(false, nil)
		// No seat release: the payment won the race.

		expired, err := s.sut.ExpireOverdueOrders(context.Background())
		s.NoError(err)
		s.Equal(0, expired)
	})

	s.Run("success: one failing order does not stop the pass", func() {
		bad, good := uuid.New(), uuid.New()

		s.orders.EXPECT().FindOverduePending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]uuid.UUID{bad, good}, nil)
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), bad, order.StatusExpired).
			Return(false, errors.New("deadlock"))
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), good, order.StatusExpired).Return(true, nil)
		s.seats.EXPECT().ReleaseByOrder(gomock.Any(), gomock.Any(), good).Return(nil)

		expired, err := s.sut.ExpireOverdueOrders(context.Background())
		s.NoError(err)
		s.Equal(1, expired)
	})
}
