package nats

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/cold-17/smart-todo-app-sub000/domain/ports"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// Subscriber receives task events and forwards them to a handler,
// typically the websocket broadcaster.
type Subscriber struct {
	conn      *nats.Conn
	sub       *nats.Subscription
	runningMu sync.Mutex
	running   bool
}

func NewSubscriber(client *Client) ports.TaskEventSubscriber {
	return &Subscriber{conn: client.conn}
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(event *ports.TaskEvent)) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectTaskEvents, func(msg *nats.Msg) {
		var event ports.TaskEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to parse task event", "error", err)
			return
		}

		// Synchronous delivery preserves per-connection event order.
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Task event handler panicked", "error", r)
				}
			}()
			handler(&event)
		}()
	})
	if err != nil {
		return err
	}

	s.sub = sub
	s.running = true
	logger.Info("NATS subscriber started", "subject", SubjectTaskEvents)
	return nil
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	if s.sub != nil {
		return s.sub.Unsubscribe()
	}
	return nil
}
