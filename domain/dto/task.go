package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Category    string     `json:"category" validate:"omitempty,oneof=work personal health learning urgent general"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate" validate:"omitempty"`
	ListID      *uuid.UUID `json:"listId" validate:"omitempty"`
	Subtasks    []string   `json:"subtasks" validate:"omitempty,max=50,dive,min=1,max=200"`
}

// UpdateTaskRequest uses pointers so an absent field leaves the task
// untouched. Completed drives the false→true transition the recurrence
// hook watches for.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Category    *string    `json:"category" validate:"omitempty,oneof=work personal health learning urgent general"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	ClearDue    bool       `json:"clearDueDate"`
	ListID      *uuid.UUID `json:"listId"`
}

type TaskFilterRequest struct {
	Completed *bool      `query:"completed"`
	Category  string     `query:"category" validate:"omitempty,oneof=work personal health learning urgent general"`
	Priority  string     `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ListID    *uuid.UUID `query:"listId"`
	DueAfter  *time.Time `query:"dueAfter"`
	DueBefore *time.Time `query:"dueBefore"`
}

// SetRecurrenceRequest is a partial update merged onto the task's existing
// recurrence; nil fields keep their stored values.
type SetRecurrenceRequest struct {
	Enabled    *bool      `json:"enabled"`
	Pattern    *string    `json:"pattern" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Interval   *int       `json:"interval" validate:"omitempty,min=1"`
	DaysOfWeek *[]int     `json:"daysOfWeek" validate:"omitempty,max=7,dive,min=0,max=6"`
	DayOfMonth *int       `json:"dayOfMonth" validate:"omitempty,min=1,max=31"`
	EndDate    *time.Time `json:"endDate"`
	ClearEnd   bool       `json:"clearEndDate"`
}

type CreateSubtaskRequest struct {
	Text string `json:"text" validate:"required,min=1,max=200"`
}

type UpdateSubtaskRequest struct {
	Text      *string `json:"text" validate:"omitempty,min=1,max=200"`
	Completed *bool   `json:"completed"`
}

type SubtaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecurrenceResponse struct {
	Enabled     bool       `json:"enabled"`
	Pattern     string     `json:"pattern,omitempty"`
	Interval    int        `json:"interval,omitempty"`
	DaysOfWeek  []int      `json:"daysOfWeek,omitempty"`
	DayOfMonth  int        `json:"dayOfMonth,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	LastCreated *time.Time `json:"lastCreated,omitempty"`
	NextDue     *time.Time `json:"nextDue,omitempty"`
}

type TaskResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Category            string              `json:"category"`
	Priority            string              `json:"priority"`
	Completed           bool                `json:"completed"`
	CompletedAt         *time.Time          `json:"completedAt"`
	DueDate             *time.Time          `json:"dueDate"`
	UserID              uuid.UUID           `json:"userId"`
	ListID              *uuid.UUID          `json:"listId"`
	Subtasks            []SubtaskResponse   `json:"subtasks"`
	Recurrence          *RecurrenceResponse `json:"recurrence,omitempty"`
	IsRecurringInstance bool                `json:"isRecurringInstance"`
	RecurringParentID   *uuid.UUID          `json:"recurringParentId,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// BackfillSummary is the aggregate result of one backfill sweep.
type BackfillSummary struct {
	CreatedCount int               `json:"createdCount"`
	Failures     []BackfillFailure `json:"failures"`
}

type BackfillFailure struct {
	TaskID uuid.UUID `json:"taskId"`
	Error  string    `json:"error"`
}
