package ports

import "context"

// Task event types pushed to collaborators.
const (
	EventTaskCreated       = "task.created"
	EventTaskUpdated       = "task.updated"
	EventTaskCompleted     = "task.completed"
	EventTaskDeleted       = "task.deleted"
	EventInstanceSpawned   = "recurrence.instance_spawned"
	EventListMemberAdded   = "list.member_added"
	EventListMemberRemoved = "list.member_removed"
)

// TaskEvent is the payload fanned out to websocket clients watching a shared
// list. Task carries the serialized task body where relevant.
type TaskEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId,omitempty"`
	ListID string `json:"listId,omitempty"`
	UserID string `json:"userId,omitempty"`
	Task   any    `json:"task,omitempty"`
}

// TaskEventPublisher decouples services from the transport (NATS or the
// in-process websocket manager directly).
type TaskEventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

// TaskEventSubscriber feeds received events to a handler until stopped.
type TaskEventSubscriber interface {
	Subscribe(ctx context.Context, handler func(event *TaskEvent)) error
	Stop() error
}
