package services

import (
	"context"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

// RecurrenceService materializes the next instance of recurring tasks.
type RecurrenceService interface {
	// MaterializeNext creates the next instance for a recurring root task
	// and advances the parent's bookkeeping. A (nil, nil) return means the
	// series has ended or is disabled; that is a terminal state, not an
	// error. A concurrent duplicate create is also reported as (nil, nil).
	MaterializeNext(ctx context.Context, parent *models.Task) (*models.Task, error)

	// RunBackfill sweeps all due recurring roots and materializes missing
	// instances. Per-task failures are collected, never aborting the sweep.
	RunBackfill(ctx context.Context) (*dto.BackfillSummary, error)
}
