package serviceimpl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/postgres"
)

func newListFixture(t *testing.T) (*gorm.DB, services.ListService) {
	t.Helper()

	db := newTestDB(t)
	svc := NewListService(
		postgres.NewListRepository(db),
		postgres.NewTaskRepository(db),
		postgres.NewUserRepository(db),
		nil,
	)
	return db, svc
}

func TestCreateListSlug(t *testing.T) {
	db, svc := newListFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db)

	first, err := svc.CreateList(ctx, owner.ID, &dto.CreateListRequest{Name: "Grocery Run"})
	require.NoError(t, err)
	assert.Contains(t, first.Slug, "grocery-run-")

	// Same name, different list: the id suffix keeps slugs unique.
	second, err := svc.CreateList(ctx, owner.ID, &dto.CreateListRequest{Name: "Grocery Run"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestListMembership(t *testing.T) {
	db, svc := newListFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db)
	member := seedUser(t, db)
	stranger := seedUser(t, db)

	list, err := svc.CreateList(ctx, owner.ID, &dto.CreateListRequest{Name: "Household"})
	require.NoError(t, err)

	// Only the owner can invite, and invites go by email.
	_, err = svc.AddMember(ctx, stranger.ID, list.ID, &dto.AddMemberRequest{Email: member.Email})
	assert.ErrorIs(t, err, ErrNotListOwner)

	list, err = svc.AddMember(ctx, owner.ID, list.ID, &dto.AddMemberRequest{Email: member.Email})
	require.NoError(t, err)
	assert.True(t, list.HasMember(member.ID))

	_, err = svc.AddMember(ctx, owner.ID, list.ID, &dto.AddMemberRequest{Email: member.Email})
	assert.Error(t, err, "double invite should be rejected")

	// Members see the list, strangers do not.
	_, err = svc.GetList(ctx, member.ID, list.ID)
	require.NoError(t, err)
	_, err = svc.GetList(ctx, stranger.ID, list.ID)
	assert.ErrorIs(t, err, ErrNotListMember)

	// The owner cannot be removed; a member may leave on their own.
	err = svc.RemoveMember(ctx, owner.ID, list.ID, owner.ID)
	assert.Error(t, err)
	require.NoError(t, svc.RemoveMember(ctx, member.ID, list.ID, member.ID))

	list, err = svc.GetList(ctx, owner.ID, list.ID)
	require.NoError(t, err)
	assert.False(t, list.HasMember(member.ID))
}

func TestDeleteListRemovesItsTasks(t *testing.T) {
	db, svc := newListFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db)

	list, err := svc.CreateList(ctx, owner.ID, &dto.CreateListRequest{Name: "Sprint"})
	require.NoError(t, err)

	inList := &models.Task{
		ID: uuid.New(), UserID: owner.ID, ListID: &list.ID, Title: "Fix the build",
		Subtasks: []models.Subtask{{ID: uuid.New(), Text: "Bisect", Position: 0}},
	}
	standalone := &models.Task{ID: uuid.New(), UserID: owner.ID, Title: "Call dentist"}
	require.NoError(t, db.Create(inList).Error)
	require.NoError(t, db.Create(standalone).Error)

	require.NoError(t, svc.DeleteList(ctx, owner.ID, list.ID))

	_, err = svc.GetList(ctx, owner.ID, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)

	var taskCount, subtaskCount int64
	require.NoError(t, db.Model(&models.Task{}).Count(&taskCount).Error)
	require.NoError(t, db.Model(&models.Subtask{}).Count(&subtaskCount).Error)
	assert.EqualValues(t, 1, taskCount, "only the standalone task survives")
	assert.EqualValues(t, 0, subtaskCount)
}
