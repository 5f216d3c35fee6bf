package api

import (
	"errors"
	"net/http"

	resdto "ticketline/internal/handler/dto/response"
	"ticketline/internal/handler/middleware"
	"ticketline/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionQueries queries.SessionQueries
}

func NewSessionHandler(sessionQueries queries.SessionQueries) *SessionHandler {
	return &SessionHandler{
		sessionQueries: sessionQueries,
	}
}

// @Summary List sessions
// @Description List browsable event sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} resdto.SessionResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	views, err := h.sessionQueries.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SessionResponse, len(views))
	for i := range views {
		response[i] = resdto.FromSessionView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Seat map
// @Description Current seat statuses for a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.SeatResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/seats [get]
func (h *SessionHandler) SeatMap(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	views, err := h.sessionQueries.SeatMap(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.SeatResponse, len(views))
	for i := range views {
		response[i] = resdto.FromSeatView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Ticket categories
// @Description Categories for a session with remaining availability
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/categories [get]
func (h *SessionHandler) Categories(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	views, err := h.sessionQueries.Categories(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.CategoryResponse, len(views))
	for i := range views {
		response[i] = resdto.FromCategoryView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary My holds
// @Description Live holds of the current user for a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /sessions/{id}/holds [get]
func (h *SessionHandler) ListHolds(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	views, err := h.sessionQueries.ListHolds(c.Request.Context(), userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.HoldResponse, len(views))
	for i := range views {
		response[i] = resdto.FromHoldView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}
