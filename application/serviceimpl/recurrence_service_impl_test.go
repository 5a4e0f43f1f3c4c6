package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/postgres"
)

func newRecurrenceFixture(t *testing.T) (*gorm.DB, repositories.TaskRepository, *RecurrenceServiceImpl) {
	t.Helper()

	db := newTestDB(t)
	repo := postgres.NewTaskRepository(db)
	svc := NewRecurrenceService(repo, nil, nil, nil, nil)
	svc.now = fixedClock(testRef)
	return db, repo, svc
}

func seedRecurringTask(t *testing.T, db *gorm.DB, userID uuid.UUID, rec models.Recurrence) *models.Task {
	t.Helper()

	due := testRef.AddDate(0, 0, -1)
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "Water plants",
		Description: "Kitchen and balcony",
		Category:    models.CategoryHealth,
		Priority:    models.PriorityHigh,
		DueDate:     &due,
		Recurrence:  rec,
		Subtasks: []models.Subtask{
			{ID: uuid.New(), Text: "Fill the can", Completed: true, Position: 0},
		},
		CreatedAt: testRef.AddDate(0, -1, 0),
		UpdatedAt: testRef.AddDate(0, -1, 0),
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func countTasks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func countChildren(t *testing.T, db *gorm.DB, parentID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Task{}).
		Where("recurring_parent_id = ?", parentID).
		Count(&count).Error)
	return count
}

func TestMaterializeNextCreatesChild(t *testing.T) {
	db, repo, svc := newRecurrenceFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})

	child, err := svc.MaterializeNext(ctx, parent)
	require.NoError(t, err)
	require.NotNil(t, child)

	wantDue := testRef.AddDate(0, 0, 1)
	require.NotNil(t, child.DueDate)
	assert.True(t, child.DueDate.Equal(wantDue), "child due date should be the day after the reference")

	assert.True(t, child.IsRecurringInstance)
	require.NotNil(t, child.RecurringParentID)
	assert.Equal(t, parent.ID, *child.RecurringParentID)
	assert.False(t, child.Completed)
	assert.Nil(t, child.CompletedAt)
	assert.Equal(t, parent.Title, child.Title)
	assert.Equal(t, parent.Category, child.Category)
	assert.Equal(t, parent.Priority, child.Priority)

	// Subtasks carry over as fresh, unchecked copies.
	require.Len(t, child.Subtasks, 1)
	assert.Equal(t, "Fill the can", child.Subtasks[0].Text)
	assert.False(t, child.Subtasks[0].Completed)
	assert.NotEqual(t, parent.Subtasks[0].ID, child.Subtasks[0].ID)

	// Parent bookkeeping is persisted alongside the child.
	stored, err := repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Recurrence.LastCreated)
	assert.WithinDuration(t, testRef, *stored.Recurrence.LastCreated, time.Second)
	require.NotNil(t, stored.Recurrence.NextDue)
	assert.WithinDuration(t, wantDue, *stored.Recurrence.NextDue, time.Second)

	assert.EqualValues(t, 2, countTasks(t, db))
}

func TestMaterializeNextTerminalStates(t *testing.T) {
	db, _, svc := newRecurrenceFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	t.Run("nil parent", func(t *testing.T) {
		child, err := svc.MaterializeNext(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, child)
	})

	t.Run("recurrence disabled", func(t *testing.T) {
		parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
			Enabled: false, Pattern: "daily", Interval: 1,
		})
		child, err := svc.MaterializeNext(ctx, parent)
		require.NoError(t, err)
		assert.Nil(t, child)
		assert.EqualValues(t, 0, countChildren(t, db, parent.ID))
	})

	t.Run("series past its end date", func(t *testing.T) {
		parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
			Enabled: true, Pattern: "daily", Interval: 1,
			EndDate: timePtr(testRef.AddDate(0, 0, -1)),
		})
		child, err := svc.MaterializeNext(ctx, parent)
		require.NoError(t, err)
		assert.Nil(t, child)
		assert.EqualValues(t, 0, countChildren(t, db, parent.ID))
	})

	t.Run("generated instance never spawns", func(t *testing.T) {
		parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
			Enabled: true, Pattern: "daily", Interval: 1,
		})
		parent.IsRecurringInstance = true
		require.NoError(t, db.Save(parent).Error)

		child, err := svc.MaterializeNext(ctx, parent)
		require.NoError(t, err)
		assert.Nil(t, child)
		assert.EqualValues(t, 0, countChildren(t, db, parent.ID))
	})
}

func TestMaterializeNextDuplicateIsNoop(t *testing.T) {
	db, _, svc := newRecurrenceFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})

	// An instance for the same occurrence already exists, as if a concurrent
	// completion got there first.
	due := testRef.AddDate(0, 0, 1)
	existing := &models.Task{
		ID:                  uuid.New(),
		UserID:              user.ID,
		Title:               parent.Title,
		DueDate:             &due,
		IsRecurringInstance: true,
		RecurringParentID:   &parent.ID,
	}
	require.NoError(t, db.Create(existing).Error)

	child, err := svc.MaterializeNext(ctx, parent)
	require.NoError(t, err)
	assert.Nil(t, child)

	assert.EqualValues(t, 1, countChildren(t, db, parent.ID))
}

func TestMaterializeNextTwiceSamePeriod(t *testing.T) {
	db, _, svc := newRecurrenceFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	parent := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})

	first, err := svc.MaterializeNext(ctx, parent)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same clock, same computed occurrence: the unique index turns the
	// second create into a quiet no-op.
	second, err := svc.MaterializeNext(ctx, parent)
	require.NoError(t, err)
	assert.Nil(t, second)

	assert.EqualValues(t, 1, countChildren(t, db, parent.ID))
}

func TestRunBackfillCreatesMissingInstances(t *testing.T) {
	db, _, svc := newRecurrenceFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	// One rule whose next occurrence was never computed, one that is overdue,
	// and a plain task the sweep must not touch.
	p1 := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})
	p2 := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "weekly", Interval: 1,
		NextDue: timePtr(testRef.AddDate(0, 0, -3)),
	})
	plain := &models.Task{ID: uuid.New(), UserID: user.ID, Title: "One-off errand"}
	require.NoError(t, db.Create(plain).Error)

	summary, err := svc.RunBackfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CreatedCount)
	assert.Empty(t, summary.Failures)

	assert.EqualValues(t, 1, countChildren(t, db, p1.ID))
	assert.EqualValues(t, 1, countChildren(t, db, p2.ID))
	assert.EqualValues(t, 0, countChildren(t, db, plain.ID))

	// Second sweep with no completions in between creates nothing new.
	summary, err = svc.RunBackfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CreatedCount)
	assert.Empty(t, summary.Failures)

	assert.EqualValues(t, 1, countChildren(t, db, p1.ID))
	assert.EqualValues(t, 1, countChildren(t, db, p2.ID))
}

// failingHasInstanceRepo simulates a store read failure for one parent.
type failingHasInstanceRepo struct {
	repositories.TaskRepository
	failFor uuid.UUID
}

func (r *failingHasInstanceRepo) HasInstanceSince(ctx context.Context, parentID uuid.UUID, since time.Time) (bool, error) {
	if parentID == r.failFor {
		return false, errors.New("store read failed")
	}
	return r.TaskRepository.HasInstanceSince(ctx, parentID, since)
}

func TestRunBackfillIsolatesFailures(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db)

	bad := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})
	good := seedRecurringTask(t, db, user.ID, models.Recurrence{
		Enabled: true, Pattern: "daily", Interval: 1,
	})

	repo := &failingHasInstanceRepo{
		TaskRepository: postgres.NewTaskRepository(db),
		failFor:        bad.ID,
	}
	svc := NewRecurrenceService(repo, nil, nil, nil, nil)
	svc.now = fixedClock(testRef)

	summary, err := svc.RunBackfill(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CreatedCount)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, bad.ID, summary.Failures[0].TaskID)
	assert.Contains(t, summary.Failures[0].Error, "store read failed")

	assert.EqualValues(t, 0, countChildren(t, db, bad.ID))
	assert.EqualValues(t, 1, countChildren(t, db, good.ID))
}
