//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketline/internal/domain/order"
	"ticketline/internal/infra"
	"ticketline/internal/infra/db"
	"ticketline/internal/pkg/clock"
	"ticketline/internal/usecase/commands"
	"ticketline/internal/usecase/shared"
	commandsmock "ticketline/tests/mock/commands"
	sharedmock "ticketline/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentCommandsTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	uow           *sharedmock.MockUnitOfWork
	tx            *sharedmock.MockTx
	orders        *sharedmock.MockOrderRepository
	seats         *sharedmock.MockSeatRepository
	notifications *sharedmock.MockNotificationRepository
	gateway       *commandsmock.MockPaymentGateway
	issuer        *commandsmock.MockTicketIssuer
	sut           commands.PaymentCommands
	userID        uuid.UUID
	orderID       uuid.UUID
}

func (s *PaymentCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.tx = sharedmock.NewMockTx(s.mockCtrl)
	s.orders = sharedmock.NewMockOrderRepository(s.mockCtrl)
	s.seats = sharedmock.NewMockSeatRepository(s.mockCtrl)
	s.notifications = sharedmock.NewMockNotificationRepository(s.mockCtrl)
	s.gateway = commandsmock.NewMockPaymentGateway(s.mockCtrl)
	s.issuer = commandsmock.NewMockTicketIssuer(s.mockCtrl)

	s.tx.EXPECT().DB().Return(nil).AnyTimes()
	s.tx.EXPECT().Orders().Return(s.orders).AnyTimes()
	s.tx.EXPECT().Seats().Return(s.seats).AnyTimes()
	s.tx.EXPECT().Notifications().Return(s.notifications).AnyTimes()

	s.sut = commands.NewPaymentCommands(
		s.uow, s.orders, s.gateway, s.issuer,
		clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	)
	s.userID = uuid.New()
	s.orderID = uuid.New()
}

func (s *PaymentCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentCommandsSuite(t *testing.T) {
	suite.Run(t, new(PaymentCommandsTestSuite))
}

func (s *PaymentCommandsTestSuite) expectWithin() {
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		})
}

func (s *PaymentCommandsTestSuite) expectWithDB() {
	s.uow.EXPECT().WithDB(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, db.DBTX) error) error {
			return fn(ctx, nil)
		})
}

func (s *PaymentCommandsTestSuite) pendingOrder() *shared.OrderSnapshot {
	return &shared.OrderSnapshot{
		ID:         s.orderID,
		UserID:     s.userID,
		SessionID:  uuid.New(),
		Status:     "pending",
		TotalCents: 8000,
		CreatedAt:  time.Date(2026, 3, 1, 11, 50, 0, 0, time.UTC),
		ExpiresAt:  time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC),
	}
}

func (s *PaymentCommandsTestSuite) TestStartPayment() {
	s.Run("success: first attempt creates a gateway payment", func() {
		snapshot := s.pendingOrder()
		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).
			Return([]shared.OrderItemSnapshot{{ID: uuid.New(), OrderID: s.orderID, CategoryID: uuid.New(), Quantity: 2, UnitPriceCents: 4000}}, nil)
		s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.CreatePaymentRequest) (*commands.Payment, error) {
				s.Equal(s.orderID.String(), req.Reference)
				s.Equal(int64(8000), req.AmountCents)
				return &commands.Payment{ID: "pay_123", Reference: req.Reference, Status: commands.PaymentStatusPending, PayableRef: "https://pay.example/pay_123"}, nil
			})
		s.expectWithin()
		s.orders.EXPECT().AttachPaymentRef(gomock.Any(), gomock.Any(), s.orderID, s.orderID.String(), "pay_123").Return(nil)

		result, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.NoError(err)
		s.Equal("pay_123", result.PaymentID)
		s.False(result.Reused)
	})

	s.Run("success: a still-payable payment is reused, not recreated", func() {
		snapshot := s.pendingOrder()
		existing := "pay_old"
		snapshot.ProviderPaymentID = &existing

		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).Return(nil, nil)
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_old").
			Return(&commands.Payment{ID: "pay_old", Reference: s.orderID.String(), Status: commands.PaymentStatusPending, PayableRef: "https://pay.example/pay_old"}, nil)

		result, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.NoError(err)
		s.Equal("pay_old", result.PaymentID)
		s.True(result.Reused)
	})

	s.Run("error: existing payment already settled reconciles and reports paid", func() {
		snapshot := s.pendingOrder()
		existing := "pay_done"
		snapshot.ProviderPaymentID = &existing
		paid := &commands.Payment{ID: "pay_done", Reference: s.orderID.String(), Status: commands.PaymentStatusPaid}

		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).Return(nil, nil)
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_done").Return(paid, nil)

		// Reconcile runs inline: re-fetch, flip, mark seats sold, enqueue mail,
		// issue tickets.
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_done").Return(paid, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), s.orderID.String()).Return(snapshot, nil)
		s.expectWithin()
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), s.orderID, order.StatusPaid).Return(true, nil)
		s.seats.EXPECT().MarkSoldByOrder(gomock.Any(), gomock.Any(), s.orderID).Return(nil)
		s.notifications.EXPECT().CreateJob(gomock.Any(), gomock.Any(), "email", "order_paid", gomock.Any(), gomock.Any()).Return(nil)
		s.issuer.EXPECT().IssueTickets(gomock.Any(), s.orderID).
			Return([]commands.Ticket{{ID: uuid.New(), OrderID: s.orderID, Code: "TKT-1"}}, nil)
		s.expectWithin()
		s.notifications.EXPECT().CreateJob(gomock.Any(), gomock.Any(), "email", "tickets_issued", gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.ErrorIs(err, commands.ErrOrderAlreadyPaid)
	})

	s.Run("error: gateway down leaves the order untouched", func() {
		snapshot := s.pendingOrder()
		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).Return(nil, nil)
		s.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.ErrorIs(err, commands.ErrGatewayUnavailable)
	})

	s.Run("error: someone else's order", func() {
		snapshot := s.pendingOrder()
		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).Return(nil, nil)

		_, err := s.sut.StartPayment(context.Background(), s.orderID, uuid.New())
		s.ErrorIs(err, commands.ErrOrderForbidden)
	})

	s.Run("error: paid order cannot start another payment", func() {
		snapshot := s.pendingOrder()
		snapshot.Status = "paid"
		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).Return(snapshot, nil)
		s.orders.EXPECT().ItemsByOrderID(gomock.Any(), gomock.Any(), s.orderID).Return(nil, nil)

		_, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.ErrorIs(err, commands.ErrOrderAlreadyPaid)
	})

	s.Run("error: unknown order", func() {
		s.expectWithDB()
		s.orders.EXPECT().FindByID(gomock.Any(), gomock.Any(), s.orderID).
			Return(nil, infra.WrapRepoErr("order not found", errors.New("no rows"), infra.KindNotFound))

		_, err := s.sut.StartPayment(context.Background(), s.orderID, s.userID)
		s.ErrorIs(err, commands.ErrOrderNotFound)
	})
}

func (s *PaymentCommandsTestSuite) TestReconcile() {
	reference := s.orderID.String()

	s.Run("success: paid webhook flips the order once and issues tickets", func() {
		snapshot := s.pendingOrder()
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusPaid}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)
		s.expectWithin()
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), s.orderID, order.StatusPaid).Return(true, nil)
		s.seats.EXPECT().MarkSoldByOrder(gomock.Any(), gomock.Any(), s.orderID).Return(nil)
		s.notifications.EXPECT().CreateJob(gomock.Any(), gomock.Any(), "email", "order_paid", gomock.Any(), gomock.Any()).Return(nil)
		s.issuer.EXPECT().IssueTickets(gomock.Any(), s.orderID).
			Return([]commands.Ticket{{ID: uuid.New(), OrderID: s.orderID, Code: "TKT-1"}}, nil)
		s.expectWithin()
		s.notifications.EXPECT().CreateJob(gomock.Any(), gomock.Any(), "email", "tickets_issued", gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})

	s.Run("success: replayed webhook for an already-paid order is a no-op", func() {
		snapshot := s.pendingOrder()
		snapshot.Status = "paid"
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusPaid}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)

		// No UpdateStatusIfPending, no issuance.
		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})

	s.Run("success: lost CAS race skips issuance entirely", func() {
		snapshot := s.pendingOrder()
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusPaid}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)
		s.expectWithin()
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), s.orderID, order.StatusPaid).Return(false, nil)

		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})

	s.Run("success: cancelled payment frees the seats", func() {
		snapshot := s.pendingOrder()
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusCancelled}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)
		s.expectWithin()
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), s.orderID, order.StatusCancelled).Return(true, nil)
		s.seats.EXPECT().ReleaseByOrder(gomock.Any(), gomock.Any(), s.orderID).Return(nil)

		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})

	s.Run("success: unknown payment reference is absorbed", func() {
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_orphan").
			Return(&commands.Payment{ID: "pay_orphan", Reference: "not-ours", Status: commands.PaymentStatusPaid}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), "not-ours").
			Return(nil, infra.WrapRepoErr("order not found", errors.New("no rows"), infra.KindNotFound))

		s.NoError(s.sut.Reconcile(context.Background(), "pay_orphan"))
	})

	s.Run("success: still-pending payment changes nothing", func() {
		snapshot := s.pendingOrder()
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusPending}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)

		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})

	s.Run("error: gateway unreachable", func() {
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").Return(nil, errors.New("timeout"))

		err := s.sut.Reconcile(context.Background(), "pay_1")
		s.ErrorIs(err, commands.ErrGatewayUnavailable)
	})

	s.Run("success: issuance failure does not fail reconciliation", func() {
		snapshot := s.pendingOrder()
		s.gateway.EXPECT().GetPayment(gomock.Any(), "pay_1").
			Return(&commands.Payment{ID: "pay_1", Reference: reference, Status: commands.PaymentStatusPaid}, nil)
		s.expectWithDB()
		s.orders.EXPECT().FindByPaymentRef(gomock.Any(), gomock.Any(), reference).Return(snapshot, nil)
		s.expectWithin()
		s.orders.EXPECT().UpdateStatusIfPending(gomock.Any(), gomock.Any(), s.orderID, order.StatusPaid).Return(true, nil)
		s.seats.EXPECT().MarkSoldByOrder(gomock.Any(), gomock.Any(), s.orderID).Return(nil)
		s.notifications.EXPECT().CreateJob(gomock.Any(), gomock.Any(), "email", "order_paid", gomock.Any(), gomock.Any()).Return(nil)
		s.issuer.EXPECT().IssueTickets(gomock.Any(), s.orderID).Return(nil, errors.New("issuer down"))

		s.NoError(s.sut.Reconcile(context.Background(), "pay_1"))
	})
}
