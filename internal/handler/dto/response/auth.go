package response

import (
	"time"

	"ticketline/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:        v.ID,
		Email:     v.Email,
		Role:      v.Role,
		CreatedAt: v.CreatedAt,
	}
}
