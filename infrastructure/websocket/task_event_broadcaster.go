package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// TaskEventBroadcaster bridges the event bus to websocket clients. Events
// carrying a list ID go to that list's room; everything else goes to the
// acting user's own connection.
type TaskEventBroadcaster struct {
	eventSub  ports.TaskEventSubscriber
	manager   *WebSocketManager
	running   bool
	runningMu sync.Mutex
	cancelCtx context.CancelFunc
}

func NewTaskEventBroadcaster(eventSub ports.TaskEventSubscriber, manager *WebSocketManager) *TaskEventBroadcaster {
	return &TaskEventBroadcaster{
		eventSub: eventSub,
		manager:  manager,
	}
}

func (b *TaskEventBroadcaster) Start() error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = true
	b.runningMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	b.cancelCtx = cancel

	if err := b.eventSub.Subscribe(ctx, b.handleTaskEvent); err != nil {
		b.runningMu.Lock()
		b.running = false
		b.runningMu.Unlock()
		return err
	}

	logger.Info("Task event broadcaster started")
	return nil
}

func (b *TaskEventBroadcaster) handleTaskEvent(event *ports.TaskEvent) {
	deliverTaskEvent(b.manager, event)
}

// deliverTaskEvent routes an event to its list room, or to the acting user's
// own connection when it has no list.
func deliverTaskEvent(manager *WebSocketManager, event *ports.TaskEvent) {
	if event == nil || event.Type == "" {
		logger.Warn("Invalid task event received")
		return
	}

	if event.ListID != "" {
		if listID, err := uuid.Parse(event.ListID); err == nil {
			manager.BroadcastToRoom(ListRoom(listID), event.Type, event)
			logger.Debug("Task event broadcast to room",
				"type", event.Type,
				"list_id", event.ListID,
				"clients", manager.GetRoomClients(ListRoom(listID)),
			)
			return
		}
	}

	if event.UserID != "" {
		if userID, err := uuid.Parse(event.UserID); err == nil {
			manager.BroadcastToUser(userID, event.Type, event)
		}
	}
}

func (b *TaskEventBroadcaster) Stop() {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()

	if !b.running {
		return
	}
	b.running = false

	if b.cancelCtx != nil {
		b.cancelCtx()
	}

	if b.eventSub != nil {
		if err := b.eventSub.Stop(); err != nil {
			logger.Warn("Failed to stop task event subscriber", "error", err)
		}
	}

	logger.Info("Task event broadcaster stopped")
}

func (b *TaskEventBroadcaster) IsRunning() bool {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	return b.running
}
