package api

import (
	"errors"
	"net/http"

	reqdto "ticketline/internal/handler/dto/request"
	resdto "ticketline/internal/handler/dto/response"
	"ticketline/internal/handler/middleware"
	"ticketline/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HoldHandler struct {
	reservationCommands commands.ReservationCommands
}

func NewHoldHandler(reservationCommands commands.ReservationCommands) *HoldHandler {
	return &HoldHandler{
		reservationCommands: reservationCommands,
	}
}

// @Summary Reserve seats
// @Description Place holds on specific seats, all or nothing
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveSeatsRequest true "Seat reservation request"
// @Success 201 {array} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /holds/seats [post]
func (h *HoldHandler) ReserveSeats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	views, err := h.reservationCommands.ReserveSeats(c.Request.Context(), userID, req.SessionID, req.SeatIDs)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSeatNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Seat not found in session",
			})
		case errors.Is(err, commands.ErrSeatConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "One or more seats are no longer available",
			})
		case errors.Is(err, commands.ErrTicketLimitExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Ticket limit per order exceeded",
			})
		case errors.Is(err, commands.ErrNoSeatsRequested):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "No seats requested",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.HoldResponse, len(views))
	for i := range views {
		response[i] = resdto.FromHoldView(&views[i])
	}
	c.JSON(http.StatusCreated, response)
}

// @Summary Reserve general admission
// @Description Place a counted hold on a general-admission category
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveGeneralRequest true "General admission request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /holds/general [post]
func (h *HoldHandler) ReserveGeneral(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReserveGeneralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.ReserveGeneral(c.Request.Context(), userID, req.SessionID, req.CategoryID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
		case errors.Is(err, commands.ErrNotGeneralAdmission):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Category is not general admission",
			})
		case errors.Is(err, commands.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Not enough capacity left in category",
			})
		case errors.Is(err, commands.ErrTicketLimitExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Ticket limit per order exceeded",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromHoldView(view))
}

// @Summary Release hold
// @Description Give a hold back; releasing an already-gone hold succeeds
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /holds/{id} [delete]
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid hold ID format",
		})
		return
	}

	if err := h.reservationCommands.ReleaseHold(c.Request.Context(), holdID, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrHoldForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Hold belongs to another user",
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

// @Summary Checkout
// @Description Convert all live holds for a session into one pending order
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /holds/checkout [post]
func (h *HoldHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.Checkout(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No live holds to convert",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOrderView(view))
}
