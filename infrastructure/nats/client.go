package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/cold-17/smart-todo-app-sub000/pkg/config"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// SubjectTaskEvents carries every task/list event fanned out to websocket
// clients. Core pub/sub is enough here; events are fire-and-forget and a
// reconnecting client re-syncs over HTTP anyway.
const SubjectTaskEvents = "todo.tasks.events"

// Client wraps the NATS connection.
type Client struct {
	conn *nats.Conn
}

func NewClient(cfg *config.NATSConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL)
	return &Client{conn: nc}, nil
}

// Conn returns the underlying NATS connection.
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// Close closes the NATS connection.
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
		logger.Info("NATS connection closed")
	}
	return nil
}
