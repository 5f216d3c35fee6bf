package api

import (
	"errors"
	"net/http"

	resdto "ticketline/internal/handler/dto/response"
	"ticketline/internal/handler/middleware"
	"ticketline/internal/usecase/commands"
	"ticketline/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands   commands.OrderCommands
	paymentCommands commands.PaymentCommands
	orderQueries    queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, paymentCommands commands.PaymentCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands:   orderCommands,
		paymentCommands: paymentCommands,
		orderQueries:    orderQueries,
	}
}

// @Summary Get order
// @Description Get one of the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to view this order",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.OrderListResponse
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.orderQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.OrderListResponse, len(views))
	for i := range views {
		response[i] = resdto.FromOrderListView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel order
// @Description Cancel a pending order and free its seats
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	if err := h.orderCommands.Cancel(c.Request.Context(), orderID, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrOrderForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Order belongs to another user",
			})
		case errors.Is(err, commands.ErrOrderAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is already paid",
			})
		case errors.Is(err, commands.ErrOrderNotPending):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is not pending",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Start payment
// @Description Obtain a payable reference for a pending order; idempotent while payable
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.StartPaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /orders/{id}/payment [post]
func (h *OrderHandler) StartPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	result, err := h.paymentCommands.StartPayment(c.Request.Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrOrderForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Order belongs to another user",
			})
		case errors.Is(err, commands.ErrOrderAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is already paid",
			})
		case errors.Is(err, commands.ErrOrderNotPending):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order is not pending",
			})
		case errors.Is(err, commands.ErrGatewayUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment gateway unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.StartPaymentResponse{
		PaymentID:  result.PaymentID,
		PayableRef: result.PayableRef,
		Reused:     result.Reused,
	})
}
