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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type HoldHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	handler      *api.HoldHandler
	userID       uuid.UUID
}

func (s *HoldHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.handler = api.NewHoldHandler(s.mockCommands)
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

	s.router.POST("/holds/seats", authMiddleware, s.handler.ReserveSeats)
	s.router.POST("/holds/general", authMiddleware, s.handler.ReserveGeneral)
	s.router.POST("/holds/checkout", authMiddleware, s.handler.Checkout)
	s.router.DELETE("/holds/:id", authMiddleware, s.handler.ReleaseHold)
}

func (s *HoldHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestHoldHandlerSuite(t *testing.T) {
	suite.Run(t, new(HoldHandlerTestSuite))
}

func (s *HoldHandlerTestSuite) TestReserveSeats() {
	url := "/holds/seats"
	sessionID := uuid.New()
	seatID := uuid.New()
	reqBody := map[string]any{
		"session_id": sessionID,
		"seat_ids":   []uuid.UUID{seatID},
	}
	views := []queries.HoldView{{
		ID:        uuid.New(),
		UserID:    s.userID,
		SessionID: sessionID,
		Kind:      "seat",
		SeatID:    &seatID,
		Quantity:  1,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}}

	s.Run("success: returns 201 with the created holds", func() {
		s.mockCommands.EXPECT().
			ReserveSeats(gomock.Any(), s.userID, sessionID, []uuid.UUID{seatID}).
			Return(views, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response []resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Len(response, 1)
		s.Equal(views[0].ID, response[0].ID)
	})

	s.Run("error: 409 when a seat is taken", func() {
		s.mockCommands.EXPECT().
			ReserveSeats(gomock.Any(), s.userID, sessionID, gomock.Any()).
			Return(nil, commands.ErrSeatConflict)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer available")
	})

	s.Run("error: 404 when a seat is not in the session", func() {
		s.mockCommands.EXPECT().
			ReserveSeats(gomock.Any(), s.userID, sessionID, gomock.Any()).
			Return(nil, commands.ErrSeatNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Seat not found")
	})

	s.Run("error: 422 when over the ticket limit", func() {
		s.mockCommands.EXPECT().
			ReserveSeats(gomock.Any(), s.userID, sessionID, gomock.Any()).
			Return(nil, commands.ErrTicketLimitExceeded)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Ticket limit")
	})

	s.Run("error: 400 for an empty seat list", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"session_id": sessionID, "seat_ids": []uuid.UUID{}}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *HoldHandlerTestSuite) TestReserveGeneral() {
	url := "/holds/general"
	sessionID := uuid.New()
	categoryID := uuid.New()
	reqBody := map[string]any{
		"session_id":  sessionID,
		"category_id": categoryID,
		"quantity":    3,
	}
	view := &queries.HoldView{
		ID:         uuid.New(),
		UserID:     s.userID,
		SessionID:  sessionID,
		Kind:       "general",
		CategoryID: categoryID,
		Quantity:   3,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}

	s.Run("success: returns 201 with the hold", func() {
		s.mockCommands.EXPECT().
			ReserveGeneral(gomock.Any(), s.userID, sessionID, categoryID, 3).
			Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(3, response.Quantity)
	})

	s.Run("error: 409 when capacity is exhausted", func() {
		s.mockCommands.EXPECT().
			ReserveGeneral(gomock.Any(), s.userID, sessionID, categoryID, 3).
			Return(nil, commands.ErrCapacityExceeded)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "capacity")
	})

	s.Run("error: 400 for a seated-only category", func() {
		s.mockCommands.EXPECT().
			ReserveGeneral(gomock.Any(), s.userID, sessionID, categoryID, 3).
			Return(nil, commands.ErrNotGeneralAdmission)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "not general admission")
	})

	s.Run("error: 400 for zero quantity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"session_id": sessionID, "category_id": categoryID, "quantity": 0}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *HoldHandlerTestSuite) TestReleaseHold() {
	holdID := uuid.New()

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().ReleaseHold(gomock.Any(), holdID, s.userID).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/holds/"+holdID.String(), nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 403 for someone else's hold", func() {
		s.mockCommands.EXPECT().ReleaseHold(gomock.Any(), holdID, s.userID).Return(commands.ErrHoldForbidden)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/holds/"+holdID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another user")
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/holds/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid hold ID")
	})
}

func (s *HoldHandlerTestSuite) TestCheckout() {
	url := "/holds/checkout"
	sessionID := uuid.New()
	reqBody := map[string]any{"session_id": sessionID}
	view := &queries.OrderView{
		ID:         uuid.New(),
		UserID:     s.userID,
		SessionID:  sessionID,
		Status:     "pending",
		TotalCents: 10500,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(15 * time.Minute),
	}

	s.Run("success: returns 201 with the pending order", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.userID, sessionID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("pending", response.Status)
		s.Equal(int64(10500), response.TotalCents)
	})

	s.Run("error: 422 with nothing held", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), s.userID, sessionID).Return(nil, commands.ErrEmptyCart)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "No live holds")
	})
}
