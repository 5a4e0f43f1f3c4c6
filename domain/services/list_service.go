package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

type ListService interface {
	CreateList(ctx context.Context, ownerID uuid.UUID, req *dto.CreateListRequest) (*models.TaskList, error)
	GetList(ctx context.Context, userID, listID uuid.UUID) (*models.TaskList, error)
	GetUserLists(ctx context.Context, userID uuid.UUID) ([]*models.TaskList, error)
	UpdateList(ctx context.Context, userID, listID uuid.UUID, req *dto.UpdateListRequest) (*models.TaskList, error)
	// DeleteList removes the list and cascades to all tasks under it.
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
	AddMember(ctx context.Context, ownerID, listID uuid.UUID, req *dto.AddMemberRequest) (*models.TaskList, error)
	RemoveMember(ctx context.Context, ownerID, listID, memberID uuid.UUID) error
}
