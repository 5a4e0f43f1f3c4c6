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

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/postgres"
)

func newTaskFixture(t *testing.T) (*gorm.DB, repositories.TaskRepository, *TaskServiceImpl) {
	t.Helper()

	db := newTestDB(t)
	repo := postgres.NewTaskRepository(db)

	rec := NewRecurrenceService(repo, nil, nil, nil, nil)
	rec.now = fixedClock(testRef)

	svc := &TaskServiceImpl{
		taskRepo:          repo,
		listRepo:          postgres.NewListRepository(db),
		recurrenceService: rec,
		now:               fixedClock(testRef),
	}
	return db, repo, svc
}

func TestCreateTaskDefaults(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{
		Title:    "  Buy groceries  ",
		Subtasks: []string{"Milk", "Bread"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, models.CategoryGeneral, task.Category)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)

	require.Len(t, task.Subtasks, 2)
	assert.Equal(t, 0, task.Subtasks[0].Position)
	assert.Equal(t, 1, task.Subtasks[1].Position)

	_, err = svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "   "})
	assert.Error(t, err)
}

func TestUpdateTaskCompletionSpawnsNextInstance(t *testing.T) {
	db, repo, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{
		Title:    "Water plants",
		Category: models.CategoryHealth,
	})
	require.NoError(t, err)

	_, err = svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Pattern: strPtr("daily"),
	})
	require.NoError(t, err)

	updated, warning, err := svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, testRef, *updated.CompletedAt, time.Second)

	assert.EqualValues(t, 1, countChildren(t, db, task.ID))

	var child models.Task
	require.NoError(t, db.Where("recurring_parent_id = ?", task.ID).First(&child).Error)
	require.NotNil(t, child.DueDate)
	assert.WithinDuration(t, testRef.AddDate(0, 0, 1), *child.DueDate, time.Second)
	assert.False(t, child.Completed)
	assert.True(t, child.IsRecurringInstance)

	// Re-saving an already-completed task is not a transition; no second
	// instance appears.
	_, warning, err = svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.EqualValues(t, 1, countChildren(t, db, task.ID))

	// Completing the generated instance does not cascade a grandchild.
	_, warning, err = svc.UpdateTask(ctx, user.ID, child.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.EqualValues(t, 0, countChildren(t, db, child.ID))
	assert.EqualValues(t, 1, countChildren(t, db, task.ID))

	// The parent's bookkeeping survived all three updates.
	stored, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Recurrence.LastCreated)
	require.NotNil(t, stored.Recurrence.NextDue)
}

func TestUpdateTaskCompletedAtLifecycle(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "File taxes"})
	require.NoError(t, err)

	updated, _, err := svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	// Editing other fields leaves the completion timestamp alone.
	updated, _, err = svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Description: strPtr("Deadline is in April"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)

	// Reopening clears it, in the database as well.
	updated, _, err = svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedAt)

	var stored models.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.CompletedAt)
}

// stubRecurrenceService fails materialization on demand.
type stubRecurrenceService struct {
	err   error
	calls int
}

func (s *stubRecurrenceService) MaterializeNext(ctx context.Context, parent *models.Task) (*models.Task, error) {
	s.calls++
	return nil, s.err
}

func (s *stubRecurrenceService) RunBackfill(ctx context.Context) (*dto.BackfillSummary, error) {
	return &dto.BackfillSummary{}, nil
}

func TestUpdateTaskWarnsWhenSpawnFails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db)

	repo := postgres.NewTaskRepository(db)
	stub := &stubRecurrenceService{err: errors.New("store write failed")}
	svc := &TaskServiceImpl{
		taskRepo:          repo,
		listRepo:          postgres.NewListRepository(db),
		recurrenceService: stub,
		now:               fixedClock(testRef),
	}

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "Weekly review"})
	require.NoError(t, err)
	_, err = svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Pattern: strPtr("weekly"),
	})
	require.NoError(t, err)

	// The completion itself sticks; the failed spawn surfaces as a warning.
	updated, warning, err := svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.True(t, updated.Completed)
	assert.Equal(t, 1, stub.calls)

	var stored models.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.True(t, stored.Completed)
}

func TestSetRecurrenceMergesAndRecomputes(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "Gym"})
	require.NoError(t, err)

	// Setting a pattern without an explicit enabled flag turns the rule on.
	// testRef is a Friday; Mon/Wed/Fri should wrap to the next Monday.
	updated, err := svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Pattern:    strPtr("weekly"),
		DaysOfWeek: &[]int{1, 3, 5},
	})
	require.NoError(t, err)
	assert.True(t, updated.Recurrence.Enabled)
	assert.Equal(t, "weekly", updated.Recurrence.Pattern)
	require.NotNil(t, updated.Recurrence.NextDue)
	assert.WithinDuration(t, testRef.AddDate(0, 0, 3), *updated.Recurrence.NextDue, time.Second)

	// A partial update keeps the stored pattern and weekday set; a zero
	// interval clamps to 1.
	updated, err = svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Interval: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly", updated.Recurrence.Pattern)
	assert.Equal(t, models.IntList{1, 3, 5}, updated.Recurrence.DaysOfWeek)
	assert.Equal(t, 1, updated.Recurrence.Interval)
}

func TestSetRecurrenceRejectsGeneratedInstance(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "Water plants"})
	require.NoError(t, err)
	_, err = svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Pattern: strPtr("daily"),
	})
	require.NoError(t, err)

	_, _, err = svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	var child models.Task
	require.NoError(t, db.Where("recurring_parent_id = ?", task.ID).First(&child).Error)

	_, err = svc.SetRecurrence(ctx, user.ID, child.ID, &dto.SetRecurrenceRequest{
		Pattern: strPtr("daily"),
	})
	assert.Error(t, err)
}

func TestRemoveRecurrenceKeepsHistory(t *testing.T) {
	db, repo, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "Standup notes"})
	require.NoError(t, err)
	_, err = svc.SetRecurrence(ctx, user.ID, task.ID, &dto.SetRecurrenceRequest{
		Pattern:  strPtr("daily"),
		Interval: intPtr(2),
	})
	require.NoError(t, err)

	updated, err := svc.RemoveRecurrence(ctx, user.ID, task.ID)
	require.NoError(t, err)

	assert.False(t, updated.Recurrence.Enabled)
	assert.Nil(t, updated.Recurrence.NextDue)
	// Pattern and interval stay so re-enabling picks up where it left off.
	assert.Equal(t, "daily", updated.Recurrence.Pattern)
	assert.Equal(t, 2, updated.Recurrence.Interval)

	stored, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Recurrence.Enabled)
	assert.Nil(t, stored.Recurrence.NextDue)
}

func TestTaskOwnership(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db)
	stranger := seedUser(t, db)

	task, err := svc.CreateTask(ctx, owner.ID, &dto.CreateTaskRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	_, _, err = svc.UpdateTask(ctx, stranger.ID, task.ID, &dto.UpdateTaskRequest{
		Title: strPtr("Hijacked"),
	})
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	err = svc.DeleteTask(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskAccessDenied)
}

func TestSharedListTaskAccess(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db)
	member := seedUser(t, db)
	stranger := seedUser(t, db)

	list := &models.TaskList{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Name:    "Household",
		Slug:    "household",
	}
	require.NoError(t, svc.listRepo.Create(ctx, list))
	require.NoError(t, svc.listRepo.AddMember(ctx, list.ID, member.ID))

	shared, err := svc.CreateTask(ctx, owner.ID, &dto.CreateTaskRequest{
		Title:  "Take out trash",
		ListID: &list.ID,
	})
	require.NoError(t, err)

	// Members see and edit the list's tasks, regardless of who created them.
	got, err := svc.GetTask(ctx, member.ID, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.ID, got.ID)

	updated, _, err := svc.UpdateTask(ctx, member.ID, shared.ID, &dto.UpdateTaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// A list-scoped query works for any member and returns the owner's task.
	tasks, total, err := svc.GetUserTasks(ctx, member.ID, &dto.TaskFilterRequest{
		ListID: &list.ID,
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, shared.ID, tasks[0].ID)

	// Non-members stay locked out of both the task and the list query.
	_, err = svc.GetTask(ctx, stranger.ID, shared.ID)
	assert.ErrorIs(t, err, ErrTaskAccessDenied)

	_, _, err = svc.GetUserTasks(ctx, stranger.ID, &dto.TaskFilterRequest{
		ListID: &list.ID,
	}, 0, 10)
	assert.ErrorIs(t, err, ErrNotListMember)

	// Membership does not extend to the owner's personal tasks.
	private, err := svc.CreateTask(ctx, owner.ID, &dto.CreateTaskRequest{Title: "Diary"})
	require.NoError(t, err)
	_, err = svc.GetTask(ctx, member.ID, private.ID)
	assert.ErrorIs(t, err, ErrTaskAccessDenied)
}

func TestSubtaskLifecycle(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{
		Title:    "Pack for trip",
		Subtasks: []string{"Passport"},
	})
	require.NoError(t, err)

	task, err = svc.AddSubtask(ctx, user.ID, task.ID, &dto.CreateSubtaskRequest{Text: "Charger"})
	require.NoError(t, err)
	require.Len(t, task.Subtasks, 2)
	assert.Equal(t, "Charger", task.Subtasks[1].Text)
	assert.Equal(t, 1, task.Subtasks[1].Position)

	subtaskID := task.Subtasks[1].ID
	task, err = svc.UpdateSubtask(ctx, user.ID, task.ID, subtaskID, &dto.UpdateSubtaskRequest{
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, task.Subtasks[1].Completed)

	require.NoError(t, svc.DeleteSubtask(ctx, user.ID, task.ID, subtaskID))

	task, err = svc.GetTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, task.Subtasks, 1)

	// Subtasks are only reachable through their own task.
	other, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{Title: "Other"})
	require.NoError(t, err)
	_, err = svc.UpdateSubtask(ctx, user.ID, other.ID, task.Subtasks[0].ID, &dto.UpdateSubtaskRequest{
		Text: strPtr("moved?"),
	})
	assert.Error(t, err)
}

func TestGetUserTasksFilters(t *testing.T) {
	db, _, svc := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, db)

	for _, tc := range []struct {
		title    string
		category string
		done     bool
	}{
		{"A", models.CategoryWork, false},
		{"B", models.CategoryWork, true},
		{"C", models.CategoryHealth, false},
	} {
		task, err := svc.CreateTask(ctx, user.ID, &dto.CreateTaskRequest{
			Title:    tc.title,
			Category: tc.category,
		})
		require.NoError(t, err)
		if tc.done {
			_, _, err = svc.UpdateTask(ctx, user.ID, task.ID, &dto.UpdateTaskRequest{
				Completed: boolPtr(true),
			})
			require.NoError(t, err)
		}
	}

	tasks, total, err := svc.GetUserTasks(ctx, user.ID, nil, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, tasks, 3)

	tasks, total, err = svc.GetUserTasks(ctx, user.ID, &dto.TaskFilterRequest{
		Category: models.CategoryWork,
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, tasks, 2)

	tasks, total, err = svc.GetUserTasks(ctx, user.ID, &dto.TaskFilterRequest{
		Category:  models.CategoryWork,
		Completed: boolPtr(false),
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Title)
}
