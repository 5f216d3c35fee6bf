package response

import (
	"time"

	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"startsAt"`
}

type SeatResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	CategoryID uuid.UUID `json:"categoryId"`
	Status     string    `json:"status"`
}

type CategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Capacity   int       `json:"capacity"`
	Available  int       `json:"available"`
}

func FromSessionView(v *queries.SessionView) *SessionResponse {
	return &SessionResponse{
		ID:       v.ID,
		Name:     v.Name,
		Venue:    v.Venue,
		StartsAt: v.StartsAt,
	}
}

func FromSeatView(v *queries.SeatView) *SeatResponse {
	return &SeatResponse{
		ID:         v.ID,
		Label:      v.Label,
		CategoryID: v.CategoryID,
		Status:     v.Status,
	}
}

func FromCategoryView(v *queries.CategoryView) *CategoryResponse {
	return &CategoryResponse{
		ID:         v.ID,
		Name:       v.Name,
		PriceCents: v.PriceCents,
		Capacity:   v.Capacity,
		Available:  v.Available,
	}
}
