package response

import (
	"time"

	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
)

type HoldResponse struct {
	ID         uuid.UUID  `json:"id"`
	SessionID  uuid.UUID  `json:"sessionId"`
	Kind       string     `json:"kind"`
	SeatID     *uuid.UUID `json:"seatId,omitempty"`
	CategoryID uuid.UUID  `json:"categoryId"`
	Quantity   int        `json:"quantity"`
	ExpiresAt  time.Time  `json:"expiresAt"`
}

func FromHoldView(v *queries.HoldView) *HoldResponse {
	return &HoldResponse{
		ID:         v.ID,
		SessionID:  v.SessionID,
		Kind:       v.Kind,
		SeatID:     v.SeatID,
		CategoryID: v.CategoryID,
		Quantity:   v.Quantity,
		ExpiresAt:  v.ExpiresAt,
	}
}
