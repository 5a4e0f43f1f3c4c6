package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cold-17/smart-todo-app-sub000/domain/models"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
)

type ListRepositoryImpl struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) repositories.ListRepository {
	return &ListRepositoryImpl{db: db}
}

func (r *ListRepositoryImpl) Create(ctx context.Context, list *models.TaskList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *ListRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskList, error) {
	var list models.TaskList
	err := r.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *ListRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.TaskList, error) {
	var list models.TaskList
	err := r.db.WithContext(ctx).Preload("Members").Where("slug = ?", slug).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *ListRepositoryImpl) GetForUser(ctx context.Context, userID uuid.UUID) ([]*models.TaskList, error) {
	var lists []*models.TaskList
	err := r.db.WithContext(ctx).Preload("Members").
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.db.Table("list_members").Select("task_list_id").Where("user_id = ?", userID)).
		Order("created_at").
		Find(&lists).Error
	return lists, err
}

func (r *ListRepositoryImpl) Update(ctx context.Context, list *models.TaskList) error {
	return r.db.WithContext(ctx).Omit("Members", "Owner").Save(list).Error
}

func (r *ListRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM list_members WHERE task_list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.TaskList{}).Error
	})
}

func (r *ListRepositoryImpl) AddMember(ctx context.Context, listID, userID uuid.UUID) error {
	list := models.TaskList{ID: listID}
	return r.db.WithContext(ctx).Model(&list).Association("Members").Append(&models.User{ID: userID})
}

func (r *ListRepositoryImpl) RemoveMember(ctx context.Context, listID, userID uuid.UUID) error {
	list := models.TaskList{ID: listID}
	return r.db.WithContext(ctx).Model(&list).Association("Members").Delete(&models.User{ID: userID})
}
