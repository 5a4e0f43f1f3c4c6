package websocket

import (
	"context"

	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
)

// LocalPublisher delivers task events straight to the in-process websocket
// manager. It stands in for the NATS publisher on single-node deployments
// running without a broker.
type LocalPublisher struct {
	manager *WebSocketManager
}

func NewLocalPublisher(manager *WebSocketManager) ports.TaskEventPublisher {
	return &LocalPublisher{manager: manager}
}

func (p *LocalPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	deliverTaskEvent(p.manager, event)
	return nil
}
