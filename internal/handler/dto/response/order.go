package response

import (
	"time"

	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	SeatID         *uuid.UUID `json:"seatId,omitempty"`
	SeatLabel      *string    `json:"seatLabel,omitempty"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	CategoryName   string     `json:"categoryName,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unitPriceCents"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	SessionID  uuid.UUID           `json:"sessionId"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"totalCents"`
	CreatedAt  time.Time           `json:"createdAt"`
	ExpiresAt  time.Time           `json:"expiresAt"`
	Items      []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"sessionId"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type StartPaymentResponse struct {
	PaymentID  string `json:"paymentId"`
	PayableRef string `json:"payableRef"`
	Reused     bool   `json:"reused"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, OrderItemResponse{
			ID:             item.ID,
			SeatID:         item.SeatID,
			SeatLabel:      item.SeatLabel,
			CategoryID:     item.CategoryID,
			CategoryName:   item.CategoryName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return &OrderResponse{
		ID:         v.ID,
		SessionID:  v.SessionID,
		Status:     v.Status,
		TotalCents: v.TotalCents,
		CreatedAt:  v.CreatedAt,
		ExpiresAt:  v.ExpiresAt,
		Items:      items,
	}
}

func FromOrderListView(v *queries.OrderListView) *OrderListResponse {
	return &OrderListResponse{
		ID:         v.ID,
		SessionID:  v.SessionID,
		Status:     v.Status,
		TotalCents: v.TotalCents,
		CreatedAt:  v.CreatedAt,
	}
}
