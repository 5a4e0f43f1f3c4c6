package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	GetUserTasks(ctx context.Context, userID uuid.UUID, filter *dto.TaskFilterRequest, offset, limit int) ([]*models.Task, int64, error)
	// UpdateTask returns a non-empty warning when the update succeeded but a
	// secondary effect (spawning the next recurring instance) failed.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, string, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	SetRecurrence(ctx context.Context, userID, taskID uuid.UUID, req *dto.SetRecurrenceRequest) (*models.Task, error)
	RemoveRecurrence(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)

	AddSubtask(ctx context.Context, userID, taskID uuid.UUID, req *dto.CreateSubtaskRequest) (*models.Task, error)
	UpdateSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Task, error)
	DeleteSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID) error
}
