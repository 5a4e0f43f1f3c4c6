package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/recurrence"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAccessDenied = errors.New("task is not accessible to user")
)

type TaskServiceImpl struct {
	taskRepo          repositories.TaskRepository
	listRepo          repositories.ListRepository
	recurrenceService services.RecurrenceService
	publisher         ports.TaskEventPublisher
	now               func() time.Time
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	listRepo repositories.ListRepository,
	recurrenceService services.RecurrenceService,
	publisher ports.TaskEventPublisher,
) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:          taskRepo,
		listRepo:          listRepo,
		recurrenceService: recurrenceService,
		publisher:         publisher,
		now:               time.Now,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	now := s.now()

	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		ListID:      req.ListID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if task.Title == "" {
		return nil, errors.New("title is required")
	}
	if task.Category == "" {
		task.Category = models.CategoryGeneral
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	task.Subtasks = make([]models.Subtask, len(req.Subtasks))
	for i, text := range req.Subtasks {
		task.Subtasks[i] = models.Subtask{
			ID:        uuid.New(),
			TaskID:    task.ID,
			Text:      text,
			Position:  i,
			CreatedAt: now,
		}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "user_id", userID)
	s.publishEvent(ctx, ports.EventTaskCreated, task)

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return s.getTaskForUser(ctx, userID, taskID)
}

func (s *TaskServiceImpl) GetUserTasks(ctx context.Context, userID uuid.UUID, filter *dto.TaskFilterRequest, offset, limit int) ([]*models.Task, int64, error) {
	repoFilter := repositories.TaskFilter{UserID: userID}
	if filter != nil {
		repoFilter.Completed = filter.Completed
		repoFilter.Category = filter.Category
		repoFilter.Priority = filter.Priority
		repoFilter.ListID = filter.ListID
		repoFilter.DueAfter = filter.DueAfter
		repoFilter.DueBefore = filter.DueBefore
	}

	// A list-scoped query returns every task on the list, not just the
	// requester's own, as long as they belong to it.
	if repoFilter.ListID != nil {
		list, err := s.listRepo.GetByID(ctx, *repoFilter.ListID)
		if err != nil {
			return nil, 0, ErrListNotFound
		}
		if !list.HasMember(userID) {
			return nil, 0, ErrNotListMember
		}
		repoFilter.UserID = uuid.Nil
	}

	tasks, err := s.taskRepo.Find(ctx, repoFilter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.CountFiltered(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, string, error) {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return nil, "", err
	}

	wasCompleted := task.Completed

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, "", errors.New("title cannot be empty")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.ClearDue {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ListID != nil {
		task.ListID = req.ListID
	}

	// completedAt tracks the completed flag transactionally: set on the
	// false→true edge, cleared on true→false, untouched otherwise.
	if req.Completed != nil && *req.Completed != task.Completed {
		task.Completed = *req.Completed
		if task.Completed {
			now := s.now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, "", err
	}

	eventType := ports.EventTaskUpdated
	if !wasCompleted && task.Completed {
		eventType = ports.EventTaskCompleted
	}
	s.publishEvent(ctx, eventType, task)

	// Completion hook: the false→true edge on a recurring root spawns the
	// next instance. A failure here never rolls back the completion; it
	// comes back as a warning on the response.
	var warning string
	if !wasCompleted && task.Completed && task.IsRecurringRoot() {
		if _, err := s.recurrenceService.MaterializeNext(ctx, task); err != nil {
			logger.ErrorContext(ctx, "Completion hook failed to spawn next instance",
				"task_id", task.ID, "error", err)
			warning = "task completed, but the next recurring instance could not be created"
		}
	}

	return task, warning, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID, "user_id", userID)
	s.publishEvent(ctx, ports.EventTaskDeleted, task)

	return nil
}

func (s *TaskServiceImpl) SetRecurrence(ctx context.Context, userID, taskID uuid.UUID, req *dto.SetRecurrenceRequest) (*models.Task, error) {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsRecurringInstance {
		return nil, errors.New("cannot configure recurrence on a generated instance")
	}

	// Partial merge: absent fields keep their stored values.
	if req.Enabled != nil {
		task.Recurrence.Enabled = *req.Enabled
	} else if req.Pattern != nil {
		// Setting a pattern without an explicit enabled flag turns the rule on.
		task.Recurrence.Enabled = true
	}
	if req.Pattern != nil {
		task.Recurrence.Pattern = *req.Pattern
	}
	if req.Interval != nil {
		task.Recurrence.Interval = *req.Interval
	}
	if task.Recurrence.Interval < 1 {
		task.Recurrence.Interval = 1
	}
	if req.DaysOfWeek != nil {
		task.Recurrence.DaysOfWeek = models.IntList(*req.DaysOfWeek)
	}
	if req.DayOfMonth != nil {
		task.Recurrence.DayOfMonth = *req.DayOfMonth
	}
	if req.ClearEnd {
		task.Recurrence.EndDate = nil
	} else if req.EndDate != nil {
		task.Recurrence.EndDate = req.EndDate
	}

	task.Recurrence.NextDue = recurrence.NextDue(task.Recurrence.Rule(), s.now())
	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to set recurrence", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Recurrence configured",
		"task_id", taskID, "pattern", task.Recurrence.Pattern, "next_due", task.Recurrence.NextDue)
	s.publishEvent(ctx, ports.EventTaskUpdated, task)

	return task, nil
}

// RemoveRecurrence disables the rule but keeps the pattern and history so
// re-enabling picks up where it left off.
func (s *TaskServiceImpl) RemoveRecurrence(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Recurrence.Enabled = false
	task.Recurrence.NextDue = nil
	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to remove recurrence", "task_id", taskID, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, ports.EventTaskUpdated, task)

	return task, nil
}

func (s *TaskServiceImpl) AddSubtask(ctx context.Context, userID, taskID uuid.UUID, req *dto.CreateSubtaskRequest) (*models.Task, error) {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	subtask := &models.Subtask{
		ID:        uuid.New(),
		TaskID:    task.ID,
		Text:      req.Text,
		Position:  len(task.Subtasks),
		CreatedAt: s.now(),
	}

	if err := s.taskRepo.AddSubtask(ctx, subtask); err != nil {
		logger.ErrorContext(ctx, "Failed to add subtask", "task_id", taskID, "error", err)
		return nil, err
	}

	task, err = s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ports.EventTaskUpdated, task)
	return task, nil
}

func (s *TaskServiceImpl) UpdateSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Task, error) {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	subtask, err := s.taskRepo.GetSubtask(ctx, subtaskID)
	if err != nil || subtask.TaskID != task.ID {
		return nil, errors.New("subtask not found")
	}

	if req.Text != nil {
		subtask.Text = *req.Text
	}
	if req.Completed != nil {
		subtask.Completed = *req.Completed
	}

	if err := s.taskRepo.UpdateSubtask(ctx, subtask); err != nil {
		logger.ErrorContext(ctx, "Failed to update subtask", "subtask_id", subtaskID, "error", err)
		return nil, err
	}

	task, err = s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ports.EventTaskUpdated, task)
	return task, nil
}

func (s *TaskServiceImpl) DeleteSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID) error {
	task, err := s.getTaskForUser(ctx, userID, taskID)
	if err != nil {
		return err
	}

	subtask, err := s.taskRepo.GetSubtask(ctx, subtaskID)
	if err != nil || subtask.TaskID != task.ID {
		return errors.New("subtask not found")
	}

	if err := s.taskRepo.DeleteSubtask(ctx, subtaskID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete subtask", "subtask_id", subtaskID, "error", err)
		return err
	}

	return nil
}

// getTaskForUser loads a task the user may see and edit: their own, or any
// task on a shared list they belong to.
func (s *TaskServiceImpl) getTaskForUser(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	if task.UserID == userID {
		return task, nil
	}
	if task.ListID != nil {
		list, err := s.listRepo.GetByID(ctx, *task.ListID)
		if err == nil && list.HasMember(userID) {
			return task, nil
		}
	}
	return nil, ErrTaskAccessDenied
}

func (s *TaskServiceImpl) publishEvent(ctx context.Context, eventType string, task *models.Task) {
	if s.publisher == nil {
		return
	}

	event := &ports.TaskEvent{
		Type:   eventType,
		TaskID: task.ID.String(),
		UserID: task.UserID.String(),
		Task:   dto.TaskToTaskResponse(task),
	}
	if task.ListID != nil {
		event.ListID = task.ListID.String()
	}

	if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event",
			"type", eventType, "task_id", task.ID, "error", err)
	}
}
