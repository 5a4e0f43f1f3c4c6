package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/pkg/recurrence"
)

// Task categories.
const (
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryHealth   = "health"
	CategoryLearning = "learning"
	CategoryUrgent   = "urgent"
	CategoryGeneral  = "general"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID  `gorm:"not null;index"`
	User        User       `gorm:"foreignKey:UserID"`
	ListID      *uuid.UUID `gorm:"index"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:1000"`
	Category    string     `gorm:"size:20;default:'general'"`
	Priority    string     `gorm:"size:10;default:'medium'"`
	Completed   bool       `gorm:"default:false"`
	CompletedAt *time.Time

	// The composite unique index makes duplicate materialization of the same
	// occurrence a constraint conflict instead of a silent double-create.
	DueDate           *time.Time `gorm:"uniqueIndex:uniq_tasks_parent_due"`
	RecurringParentID *uuid.UUID `gorm:"uniqueIndex:uniq_tasks_parent_due;index"`

	IsRecurringInstance bool       `gorm:"default:false"`
	Recurrence          Recurrence `gorm:"embedded;embeddedPrefix:recurrence_"`

	Subtasks []Subtask `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// IsRecurringRoot reports whether completing this task may spawn the next
// instance. Generated children never re-trigger materialization.
func (t *Task) IsRecurringRoot() bool {
	return t.Recurrence.Enabled && !t.IsRecurringInstance
}

// Recurrence is embedded into tasks with the recurrence_ column prefix.
type Recurrence struct {
	Enabled     bool    `gorm:"default:false"`
	Pattern     string  `gorm:"size:10"` // daily, weekly, monthly, yearly
	Interval    int     `gorm:"default:1"`
	DaysOfWeek  IntList `gorm:"type:text"` // weekly only, 0=Sunday..6=Saturday
	DayOfMonth  int     // monthly only, 1..31
	EndDate     *time.Time
	LastCreated *time.Time // when the newest child instance was generated
	NextDue     *time.Time `gorm:"index"` // cached next occurrence
}

// Rule converts the stored configuration into a calculator rule.
func (r Recurrence) Rule() recurrence.Rule {
	return recurrence.Rule{
		Enabled:    r.Enabled,
		Pattern:    recurrence.Pattern(r.Pattern),
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		DayOfMonth: r.DayOfMonth,
		EndDate:    r.EndDate,
	}
}

type Subtask struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	TaskID    uuid.UUID `gorm:"not null;index"`
	Text      string    `gorm:"size:200;not null"`
	Completed bool      `gorm:"default:false"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (Subtask) TableName() string {
	return "subtasks"
}
