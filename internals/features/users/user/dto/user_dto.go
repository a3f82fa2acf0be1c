package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"cyberquiz_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest creates a learner or returns the existing one with that name.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID            uint      `json:"id"`
	PublicID      uuid.UUID `json:"publicId"`
	Name          string    `json:"name"`
	TotalPoints   int       `json:"totalPoints"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromModel(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:            u.UserID,
		PublicID:      u.UserPublicID,
		Name:          u.UserName,
		TotalPoints:   u.UserTotalPoints,
		CurrentStreak: u.UserCurrentStreak,
		BestStreak:    u.UserBestStreak,
		CreatedAt:     u.CreatedAt,
	}
}
