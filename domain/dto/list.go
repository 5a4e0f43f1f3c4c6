package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateListRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type UpdateListRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type AddMemberRequest struct {
	// Invite by email so collaborators don't need each other's user IDs.
	Email string `json:"email" validate:"required,email"`
}

type ListResponse struct {
	ID          uuid.UUID      `json:"id"`
	OwnerID     uuid.UUID      `json:"ownerId"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Members     []UserResponse `json:"members"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
