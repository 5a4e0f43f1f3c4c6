package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

// ErrDuplicateInstance reports that a child instance for the same parent and
// due date already exists. Callers treat it as "already materialized".
var ErrDuplicateInstance = errors.New("recurring instance already exists")

// TaskFilter narrows task queries; nil/zero fields are ignored.
type TaskFilter struct {
	UserID    uuid.UUID
	Completed *bool
	Category  string
	Priority  string
	ListID    *uuid.UUID
	DueAfter  *time.Time
	DueBefore *time.Time
}

// GroupCount is a per-key aggregate row (category or priority).
type GroupCount struct {
	Key   string
	Count int64
}

// DayCount is a per-day completion aggregate row.
type DayCount struct {
	Day   string // YYYY-MM-DD
	Count int64
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter, offset, limit int) ([]*models.Task, error)
	CountFiltered(ctx context.Context, filter TaskFilter) (int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByListID(ctx context.Context, listID uuid.UUID) error

	// Recurrence support.
	ListDueRecurring(ctx context.Context, now time.Time) ([]*models.Task, error)
	HasInstanceSince(ctx context.Context, parentID uuid.UUID, since time.Time) (bool, error)
	CreateInstanceAndUpdateParent(ctx context.Context, child *models.Task, parent *models.Task) error

	// Subtasks.
	AddSubtask(ctx context.Context, subtask *models.Subtask) error
	GetSubtask(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, subtask *models.Subtask) error
	DeleteSubtask(ctx context.Context, id uuid.UUID) error

	// Analytics aggregates, all scoped to one user.
	CountByCompletion(ctx context.Context, userID uuid.UUID, completed bool) (int64, error)
	CountAll(ctx context.Context, userID uuid.UUID) (int64, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	CountActiveRecurring(ctx context.Context, userID uuid.UUID) (int64, error)
	GroupByCategory(ctx context.Context, userID uuid.UUID) ([]GroupCount, error)
	GroupByPriority(ctx context.Context, userID uuid.UUID) ([]GroupCount, error)
	CompletedPerDay(ctx context.Context, userID uuid.UUID, since time.Time) ([]DayCount, error)
}
