package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	websocketManager "github.com/cold-17/smart-todo-app-sub000/infrastructure/websocket"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type WebSocketHandler struct {
	manager *websocketManager.WebSocketManager
}

func NewWebSocketHandler(manager *websocketManager.WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{manager: manager}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket runs one connection. The client can pre-join a list room
// with ?room=list:<id> or send join_room frames later.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	var userID uuid.UUID

	if userContext := c.Locals("user"); userContext != nil {
		if user, ok := userContext.(*utils.UserContext); ok {
			userID = user.ID
		}
	}

	if userID == uuid.Nil {
		userID = uuid.New()
		logger.Debug("Anonymous websocket connection", "assigned_id", userID)
	}

	roomID := c.Query("room", "")

	h.manager.RegisterClient(c, userID, roomID)

	defer func() {
		h.manager.UnregisterClient(c)
	}()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("WebSocket read ended", "error", err)
			break
		}

		h.manager.HandleMessage(c, messageType, message)
	}
}
