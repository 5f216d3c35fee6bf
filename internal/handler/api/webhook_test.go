//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"ticketline/internal/handler/api"
	"ticketline/internal/pkg/errs"
	"ticketline/internal/usecase/commands"
	"ticketline/tests/common/httptest"
	commandsmock "ticketline/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockCommands)

	s.router.POST("/webhooks/payment", s.handler.PaymentWebhook)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestPaymentWebhook() {
	url := "/webhooks/payment"

	s.Run("success: acknowledged with 200", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), "pay_1").Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"id": "pay_1"}, "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "ok")
	})

	s.Run("error: 400 for a body without an id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 502 when the gateway cannot be queried", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), "pay_1").
			Return(commands.ErrGatewayUnavailable)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"id": "pay_1"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "gateway unavailable")
	})

	s.Run("error: 500 for an internal failure so the provider retries", func() {
		s.mockCommands.EXPECT().Reconcile(gomock.Any(), "pay_1").
			Return(errs.New("db down"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"id": "pay_1"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
