//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"ticketline/internal/domain/user"
	"ticketline/internal/handler/api"
	resdto "ticketline/internal/handler/dto/response"
	"ticketline/internal/usecase/commands"
	"ticketline/internal/usecase/queries"
	"ticketline/tests/common/httptest"
	commandsmock "ticketline/tests/mock/commands"
	queriesmock "ticketline/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockOrders  *commandsmock.MockOrderCommands
	mockPayment *commandsmock.MockPaymentCommands
	mockQueries *queriesmock.MockOrderQueries
	handler     *api.OrderHandler
	userID      uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockOrders = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockPayment = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockOrders, s.mockPayment, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleShopper)
		c.Next()
	}

	s.router.GET("/orders", authMiddleware, s.handler.ListOrders)
	s.router.GET("/orders/:id", authMiddleware, s.handler.GetOrder)
	s.router.POST("/orders/:id/cancel", authMiddleware, s.handler.CancelOrder)
	s.router.POST("/orders/:id/payment", authMiddleware, s.handler.StartPayment)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) TestGetOrder() {
	orderID := uuid.New()
	view := &queries.OrderView{
		ID:         orderID,
		UserID:     s.userID,
		SessionID:  uuid.New(),
		Status:     "pending",
		TotalCents: 5000,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(15 * time.Minute),
	}

	s.Run("success: returns 200 with the order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), orderID, s.userID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+orderID.String(), nil, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
	})

	s.Run("error: 404 for an unknown order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), orderID, s.userID).Return(nil, queries.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+orderID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: 403 for someone else's order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), orderID, s.userID).Return(nil, queries.ErrForbidden)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+orderID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Not allowed")
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID")
	})
}

func (s *OrderHandlerTestSuite) TestCancelOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/cancel"

	s.Run("success: returns 204", func() {
		s.mockOrders.EXPECT().Cancel(gomock.Any(), orderID, s.userID).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 for a paid order", func() {
		s.mockOrders.EXPECT().Cancel(gomock.Any(), orderID, s.userID).Return(commands.ErrOrderAlreadyPaid)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already paid")
	})

	s.Run("error: 404 for an unknown order", func() {
		s.mockOrders.EXPECT().Cancel(gomock.Any(), orderID, s.userID).Return(commands.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}

func (s *OrderHandlerTestSuite) TestStartPayment() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/payment"

	s.Run("success: returns the payable reference", func() {
		s.mockPayment.EXPECT().StartPayment(gomock.Any(), orderID, s.userID).
			Return(&commands.StartPaymentResult{
				PaymentID:  "pay_1",
				PayableRef: "https://pay.example/pay_1",
			}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.StartPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("pay_1", response.PaymentID)
		s.False(response.Reused)
	})

	s.Run("success: reports a reused payment", func() {
		s.mockPayment.EXPECT().StartPayment(gomock.Any(), orderID, s.userID).
			Return(&commands.StartPaymentResult{
				PaymentID:  "pay_1",
				PayableRef: "https://pay.example/pay_1",
				Reused:     true,
			}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.StartPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Reused)
	})

	s.Run("error: 502 when the gateway is down", func() {
		s.mockPayment.EXPECT().StartPayment(gomock.Any(), orderID, s.userID).
			Return(nil, commands.ErrGatewayUnavailable)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "gateway unavailable")
	})

	s.Run("error: 409 for an already paid order", func() {
		s.mockPayment.EXPECT().StartPayment(gomock.Any(), orderID, s.userID).
			Return(nil, commands.ErrOrderAlreadyPaid)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already paid")
	})
}
