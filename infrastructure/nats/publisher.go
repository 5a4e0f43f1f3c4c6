package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// Publisher publishes task events to the shared subject.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) ports.TaskEventPublisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	if err := p.client.conn.Publish(SubjectTaskEvents, data); err != nil {
		logger.ErrorContext(ctx, "Failed to publish task event",
			"type", event.Type,
			"task_id", event.TaskID,
			"error", err,
		)
		return fmt.Errorf("failed to publish task event: %w", err)
	}

	logger.DebugContext(ctx, "Task event published",
		"type", event.Type,
		"task_id", event.TaskID,
		"list_id", event.ListID,
	)
	return nil
}
