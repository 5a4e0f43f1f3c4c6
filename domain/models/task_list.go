package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskList is a shared collection of tasks. The owner manages membership;
// members see and edit the list's tasks and receive its realtime events.
type TaskList struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	OwnerID     uuid.UUID `gorm:"not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
	Name        string    `gorm:"size:100;not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"size:500"`
	Members     []User    `gorm:"many2many:list_members"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskList) TableName() string {
	return "task_lists"
}

// HasMember reports whether the user owns the list or is a member.
func (l *TaskList) HasMember(userID uuid.UUID) bool {
	if l.OwnerID == userID {
		return true
	}
	for _, m := range l.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
