package request

import (
	"github.com/google/uuid"
)

type ReserveSeatsRequest struct {
	SessionID uuid.UUID   `json:"session_id" binding:"required"`
	SeatIDs   []uuid.UUID `json:"seat_ids" binding:"required,min=1"`
}

type ReserveGeneralRequest struct {
	SessionID  uuid.UUID `json:"session_id" binding:"required"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
}
