package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/redis"
	"github.com/cold-17/smart-todo-app-sub000/pkg/config"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/recurrence"
	"github.com/cold-17/smart-todo-app-sub000/pkg/scheduler"
)

const (
	backfillJobID = "recurrence-backfill"
	leaseTTL      = 10 * time.Second
)

var _ services.RecurrenceService = (*RecurrenceServiceImpl)(nil)

// RecurrenceServiceImpl spawns the next instance of recurring tasks, either
// from the completion path or from the scheduled backfill sweep.
//
// Redis and the event publisher are optional; without Redis the unique index
// on (recurring_parent_id, due_date) is still the hard dedup guarantee, the
// lease only cuts down on wasted conflicting writes.
type RecurrenceServiceImpl struct {
	taskRepo  repositories.TaskRepository
	redis     *redis.Client
	publisher ports.TaskEventPublisher
	sched     scheduler.EventScheduler
	cfg       *config.RecurrenceConfig
	now       func() time.Time
}

func NewRecurrenceService(
	taskRepo repositories.TaskRepository,
	redisClient *redis.Client,
	publisher ports.TaskEventPublisher,
	sched scheduler.EventScheduler,
	cfg *config.RecurrenceConfig,
) *RecurrenceServiceImpl {
	return &RecurrenceServiceImpl{
		taskRepo:  taskRepo,
		redis:     redisClient,
		publisher: publisher,
		sched:     sched,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *RecurrenceServiceImpl) MaterializeNext(ctx context.Context, parent *models.Task) (*models.Task, error) {
	if parent == nil || !parent.IsRecurringRoot() {
		return nil, nil
	}

	now := s.now()
	nextDue := recurrence.NextDue(parent.Recurrence.Rule(), now)
	if nextDue == nil {
		// Disabled, unknown pattern, or past the end date. Terminal, not an
		// error.
		logger.DebugContext(ctx, "No further occurrence", "task_id", parent.ID)
		return nil, nil
	}

	release, acquired := s.acquireLease(ctx, parent.ID)
	if !acquired {
		logger.DebugContext(ctx, "Materialization lease held elsewhere", "task_id", parent.ID)
		return nil, nil
	}
	defer release()

	child := s.buildInstance(parent, *nextDue)

	parent.Recurrence.LastCreated = &now
	parent.Recurrence.NextDue = nextDue

	if err := s.taskRepo.CreateInstanceAndUpdateParent(ctx, child, parent); err != nil {
		if errors.Is(err, repositories.ErrDuplicateInstance) {
			// Another completion or sweep got there first.
			logger.InfoContext(ctx, "Instance already materialized",
				"task_id", parent.ID, "due_date", nextDue)
			return nil, nil
		}
		logger.ErrorContext(ctx, "Failed to materialize instance",
			"task_id", parent.ID, "error", err)
		return nil, fmt.Errorf("failed to materialize next instance: %w", err)
	}

	logger.InfoContext(ctx, "Recurring instance created",
		"parent_id", parent.ID, "child_id", child.ID, "due_date", nextDue)

	s.publishSpawned(ctx, child)

	return child, nil
}

func (s *RecurrenceServiceImpl) RunBackfill(ctx context.Context) (*dto.BackfillSummary, error) {
	now := s.now()

	parents, err := s.taskRepo.ListDueRecurring(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring tasks: %w", err)
	}

	summary := &dto.BackfillSummary{Failures: []dto.BackfillFailure{}}

	for _, parent := range parents {
		created, err := s.backfillOne(ctx, parent)
		if err != nil {
			// One bad rule never stops the sweep.
			summary.Failures = append(summary.Failures, dto.BackfillFailure{
				TaskID: parent.ID,
				Error:  err.Error(),
			})
			logger.ErrorContext(ctx, "Backfill failed for task",
				"task_id", parent.ID, "error", err)
			continue
		}
		if created {
			summary.CreatedCount++
		}
	}

	logger.InfoContext(ctx, "Backfill sweep finished",
		"scanned", len(parents),
		"created", summary.CreatedCount,
		"failed", len(summary.Failures),
	)

	return summary, nil
}

func (s *RecurrenceServiceImpl) backfillOne(ctx context.Context, parent *models.Task) (bool, error) {
	// Advisory pre-check: an instance at or after lastCreated means the
	// pending period is already covered. The unique index catches whatever
	// slips through between this read and the create.
	since := time.Time{}
	if parent.Recurrence.LastCreated != nil {
		since = *parent.Recurrence.LastCreated
	}

	exists, err := s.taskRepo.HasInstanceSince(ctx, parent.ID, since)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	child, err := s.MaterializeNext(ctx, parent)
	if err != nil {
		return false, err
	}
	return child != nil, nil
}

// RegisterBackfillJob wires the sweep into the cron scheduler. No-op when
// disabled by config.
func (s *RecurrenceServiceImpl) RegisterBackfillJob() error {
	if s.sched == nil || s.cfg == nil || !s.cfg.BackfillEnabled {
		logger.Info("Recurrence backfill job disabled")
		return nil
	}

	return s.sched.AddJob(backfillJobID, s.cfg.BackfillCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.RunBackfill(ctx); err != nil {
			logger.Error("Scheduled backfill sweep failed", "error", err)
		}
	})
}

// buildInstance copies the template fields onto a fresh child task. Subtasks
// come over with completion reset; recurrence config is copied for display
// but the child never spawns on its own.
func (s *RecurrenceServiceImpl) buildInstance(parent *models.Task, dueDate time.Time) *models.Task {
	now := s.now()

	child := &models.Task{
		ID:          uuid.New(),
		UserID:      parent.UserID,
		ListID:      parent.ListID,
		Title:       parent.Title,
		Description: parent.Description,
		Category:    parent.Category,
		Priority:    parent.Priority,
		Completed:   false,
		DueDate:     &dueDate,

		IsRecurringInstance: true,
		RecurringParentID:   &parent.ID,
		Recurrence: models.Recurrence{
			Enabled:    parent.Recurrence.Enabled,
			Pattern:    parent.Recurrence.Pattern,
			Interval:   parent.Recurrence.Interval,
			DaysOfWeek: append(models.IntList(nil), parent.Recurrence.DaysOfWeek...),
			DayOfMonth: parent.Recurrence.DayOfMonth,
			EndDate:    parent.Recurrence.EndDate,
		},

		CreatedAt: now,
		UpdatedAt: now,
	}

	child.Subtasks = make([]models.Subtask, len(parent.Subtasks))
	for i, st := range parent.Subtasks {
		child.Subtasks[i] = models.Subtask{
			ID:        uuid.New(),
			TaskID:    child.ID,
			Text:      st.Text,
			Completed: false,
			Position:  st.Position,
			CreatedAt: now,
		}
	}

	return child
}

// acquireLease takes the per-parent Redis lock when Redis is available. The
// returned release func is always safe to call.
func (s *RecurrenceServiceImpl) acquireLease(ctx context.Context, parentID uuid.UUID) (func(), bool) {
	if s.redis == nil {
		return func() {}, true
	}

	key := "recurrence:lease:" + parentID.String()
	ok, err := s.redis.AcquireLock(ctx, key, leaseTTL)
	if err != nil {
		// Redis being down degrades to index-only dedup.
		logger.WarnContext(ctx, "Lease acquire failed, continuing without it",
			"task_id", parentID, "error", err)
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}

	return func() {
		if err := s.redis.ReleaseLock(ctx, key); err != nil {
			logger.WarnContext(ctx, "Lease release failed", "key", key, "error", err)
		}
	}, true
}

func (s *RecurrenceServiceImpl) publishSpawned(ctx context.Context, child *models.Task) {
	if s.publisher == nil {
		return
	}

	event := &ports.TaskEvent{
		Type:   ports.EventInstanceSpawned,
		TaskID: child.ID.String(),
		UserID: child.UserID.String(),
		Task:   dto.TaskToTaskResponse(child),
	}
	if child.ListID != nil {
		event.ListID = child.ListID.String()
	}

	if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish instance spawned event",
			"task_id", child.ID, "error", err)
	}
}
