package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

type ListRepository interface {
	Create(ctx context.Context, list *models.TaskList) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskList, error)
	GetBySlug(ctx context.Context, slug string) (*models.TaskList, error)
	// GetForUser returns lists the user owns or belongs to.
	GetForUser(ctx context.Context, userID uuid.UUID) ([]*models.TaskList, error)
	Update(ctx context.Context, list *models.TaskList) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, listID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, listID, userID uuid.UUID) error
}
