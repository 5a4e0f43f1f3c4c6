package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func applyFilter(q *gorm.DB, filter repositories.TaskFilter) *gorm.DB {
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.ListID != nil {
		q = q.Where("list_id = ?", *filter.ListID)
	}
	if filter.DueAfter != nil {
		q = q.Where("due_date >= ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date <= ?", *filter.DueBefore)
	}
	return q
}

func (r *TaskRepositoryImpl) Find(ctx context.Context, filter repositories.TaskFilter, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	q := applyFilter(r.db.WithContext(ctx).Model(&models.Task{}), filter)
	err := q.Preload("Subtasks", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) CountFiltered(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&models.Task{}), filter).Count(&count).Error
	return count, err
}

// Update persists the full record so clearing completed/completed_at and
// other zero values actually sticks.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Subtasks", "User").Save(task).Error
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Task{}).Error
	})
}

func (r *TaskRepositoryImpl) DeleteByListID(ctx context.Context, listID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("list_id = ?", listID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
	})
}

// ListDueRecurring returns recurring roots whose cached next occurrence is
// due or was never computed. Children are excluded; they never spawn.
func (r *TaskRepositoryImpl) ListDueRecurring(ctx context.Context, now time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("recurrence_enabled = ?", true).
		Where("is_recurring_instance = ?", false).
		Where("recurrence_next_due <= ? OR recurrence_next_due IS NULL", now).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) HasInstanceSince(ctx context.Context, parentID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("recurring_parent_id = ?", parentID).
		Where("due_date >= ?", since).
		Count(&count).Error
	return count > 0, err
}

// CreateInstanceAndUpdateParent writes the child and the parent bookkeeping
// in one transaction. The child goes first: if the parent update fails, the
// stale lastCreated/nextDue still excludes a second child on retry.
func (r *TaskRepositoryImpl) CreateInstanceAndUpdateParent(ctx context.Context, child *models.Task, parent *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(child).Error; err != nil {
			return err
		}
		return tx.Omit("Subtasks", "User").Save(parent).Error
	})
	// The unique index on (recurring_parent_id, due_date) turns a concurrent
	// double-materialization into a conflict here.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrDuplicateInstance
	}
	return err
}

// ========== Subtasks ==========

func (r *TaskRepositoryImpl) AddSubtask(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *TaskRepositoryImpl) GetSubtask(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	var subtask models.Subtask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error
	if err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *TaskRepositoryImpl) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Save(subtask).Error
}

func (r *TaskRepositoryImpl) DeleteSubtask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subtask{}).Error
}

// ========== Analytics aggregates ==========

func (r *TaskRepositoryImpl) CountByCompletion(ctx context.Context, userID uuid.UUID, completed bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND completed = ?", userID, completed).
		Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) CountAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND completed = ? AND due_date < ?", userID, false, now).
		Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) CountActiveRecurring(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND recurrence_enabled = ? AND is_recurring_instance = ?", userID, true, false).
		Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) GroupByCategory(ctx context.Context, userID uuid.UUID) ([]repositories.GroupCount, error) {
	var rows []repositories.GroupCount
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("category AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error
	return rows, err
}

func (r *TaskRepositoryImpl) GroupByPriority(ctx context.Context, userID uuid.UUID) ([]repositories.GroupCount, error) {
	var rows []repositories.GroupCount
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("priority AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&rows).Error
	return rows, err
}

// CompletedPerDay buckets in Go rather than SQL so the query stays portable
// across the postgres and sqlite (test) drivers.
func (r *TaskRepositoryImpl) CompletedPerDay(ctx context.Context, userID uuid.UUID, since time.Time) ([]repositories.DayCount, error) {
	var timestamps []time.Time
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, since).
		Pluck("completed_at", &timestamps).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64)
	for _, ts := range timestamps {
		byDay[ts.UTC().Format("2006-01-02")]++
	}

	rows := make([]repositories.DayCount, 0, len(byDay))
	for day, count := range byDay {
		rows = append(rows, repositories.DayCount{Day: day, Count: count})
	}
	return rows, nil
}
