package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

var (
	ErrListNotFound  = errors.New("list not found")
	ErrNotListMember = errors.New("user is not a member of this list")
	ErrNotListOwner  = errors.New("only the list owner can do this")
)

type ListServiceImpl struct {
	listRepo  repositories.ListRepository
	taskRepo  repositories.TaskRepository
	userRepo  repositories.UserRepository
	publisher ports.TaskEventPublisher
}

func NewListService(
	listRepo repositories.ListRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	publisher ports.TaskEventPublisher,
) services.ListService {
	return &ListServiceImpl{
		listRepo:  listRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func (s *ListServiceImpl) CreateList(ctx context.Context, ownerID uuid.UUID, req *dto.CreateListRequest) (*models.TaskList, error) {
	now := time.Now()

	list := &models.TaskList{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// A short id suffix keeps slugs unique across same-named lists.
	list.Slug = fmt.Sprintf("%s-%s", slug.Make(req.Name), list.ID.String()[:8])

	if err := s.listRepo.Create(ctx, list); err != nil {
		logger.ErrorContext(ctx, "Failed to create list", "owner_id", ownerID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "List created", "list_id", list.ID, "slug", list.Slug)

	return s.listRepo.GetByID(ctx, list.ID)
}

func (s *ListServiceImpl) GetList(ctx context.Context, userID, listID uuid.UUID) (*models.TaskList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, ErrListNotFound
	}
	if !list.HasMember(userID) {
		return nil, ErrNotListMember
	}
	return list, nil
}

func (s *ListServiceImpl) GetUserLists(ctx context.Context, userID uuid.UUID) ([]*models.TaskList, error) {
	return s.listRepo.GetForUser(ctx, userID)
}

func (s *ListServiceImpl) UpdateList(ctx context.Context, userID, listID uuid.UUID, req *dto.UpdateListRequest) (*models.TaskList, error) {
	list, err := s.getOwnedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		list.Name = *req.Name
	}
	if req.Description != nil {
		list.Description = *req.Description
	}
	list.UpdatedAt = time.Now()

	if err := s.listRepo.Update(ctx, list); err != nil {
		logger.ErrorContext(ctx, "Failed to update list", "list_id", listID, "error", err)
		return nil, err
	}

	return s.listRepo.GetByID(ctx, listID)
}

func (s *ListServiceImpl) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.getOwnedList(ctx, userID, listID); err != nil {
		return err
	}

	// Tasks go first so nothing is orphaned under the deleted list.
	if err := s.taskRepo.DeleteByListID(ctx, listID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete list tasks", "list_id", listID, "error", err)
		return err
	}

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete list", "list_id", listID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "List deleted with its tasks", "list_id", listID)
	return nil
}

func (s *ListServiceImpl) AddMember(ctx context.Context, ownerID, listID uuid.UUID, req *dto.AddMemberRequest) (*models.TaskList, error) {
	list, err := s.getOwnedList(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	member, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("no user with that email")
	}
	if list.HasMember(member.ID) {
		return nil, errors.New("user is already a member")
	}

	if err := s.listRepo.AddMember(ctx, listID, member.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to add list member", "list_id", listID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "List member added", "list_id", listID, "member_id", member.ID)
	s.publishMemberEvent(ctx, ports.EventListMemberAdded, listID, member.ID)

	return s.listRepo.GetByID(ctx, listID)
}

func (s *ListServiceImpl) RemoveMember(ctx context.Context, ownerID, listID, memberID uuid.UUID) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return ErrListNotFound
	}
	// The owner can remove anyone; a member can remove only themselves.
	if list.OwnerID != ownerID && ownerID != memberID {
		return ErrNotListOwner
	}
	if memberID == list.OwnerID {
		return errors.New("the owner cannot be removed")
	}

	if err := s.listRepo.RemoveMember(ctx, listID, memberID); err != nil {
		logger.ErrorContext(ctx, "Failed to remove list member", "list_id", listID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "List member removed", "list_id", listID, "member_id", memberID)
	s.publishMemberEvent(ctx, ports.EventListMemberRemoved, listID, memberID)

	return nil
}

func (s *ListServiceImpl) getOwnedList(ctx context.Context, userID, listID uuid.UUID) (*models.TaskList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, ErrListNotFound
	}
	if list.OwnerID != userID {
		return nil, ErrNotListOwner
	}
	return list, nil
}

func (s *ListServiceImpl) publishMemberEvent(ctx context.Context, eventType string, listID, memberID uuid.UUID) {
	if s.publisher == nil {
		return
	}

	event := &ports.TaskEvent{
		Type:   eventType,
		ListID: listID.String(),
		UserID: memberID.String(),
	}
	if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish list member event",
			"type", eventType, "list_id", listID, "error", err)
	}
}
