package dto

import (
	"github.com/cold-17/smart-todo-app-sub000/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}

	subtasks := make([]SubtaskResponse, len(task.Subtasks))
	for i, st := range task.Subtasks {
		subtasks[i] = SubtaskResponse{
			ID:        st.ID,
			Text:      st.Text,
			Completed: st.Completed,
			Position:  st.Position,
			CreatedAt: st.CreatedAt,
		}
	}

	resp := &TaskResponse{
		ID:                  task.ID,
		Title:               task.Title,
		Description:         task.Description,
		Category:            task.Category,
		Priority:            task.Priority,
		Completed:           task.Completed,
		CompletedAt:         task.CompletedAt,
		DueDate:             task.DueDate,
		UserID:              task.UserID,
		ListID:              task.ListID,
		Subtasks:            subtasks,
		IsRecurringInstance: task.IsRecurringInstance,
		RecurringParentID:   task.RecurringParentID,
		CreatedAt:           task.CreatedAt,
		UpdatedAt:           task.UpdatedAt,
	}

	// Only surface recurrence once it has been configured; a pattern may
	// remain after the rule is disabled (remove keeps history).
	if task.Recurrence.Enabled || task.Recurrence.Pattern != "" {
		resp.Recurrence = RecurrenceToResponse(task.Recurrence)
	}

	return resp
}

func RecurrenceToResponse(r models.Recurrence) *RecurrenceResponse {
	return &RecurrenceResponse{
		Enabled:     r.Enabled,
		Pattern:     r.Pattern,
		Interval:    r.Interval,
		DaysOfWeek:  r.DaysOfWeek,
		DayOfMonth:  r.DayOfMonth,
		EndDate:     r.EndDate,
		LastCreated: r.LastCreated,
		NextDue:     r.NextDue,
	}
}

func ListToListResponse(list *models.TaskList) *ListResponse {
	if list == nil {
		return nil
	}

	members := make([]UserResponse, len(list.Members))
	for i := range list.Members {
		members[i] = *UserToUserResponse(&list.Members[i])
	}

	return &ListResponse{
		ID:          list.ID,
		OwnerID:     list.OwnerID,
		Name:        list.Name,
		Slug:        list.Slug,
		Description: list.Description,
		Members:     members,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
}
