package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/infrastructure/websocket"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, wsManager *websocket.WebSocketManager) {
	SetupHealthRoutes(app)

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h)
	SetupUserRoutes(api, h)
	SetupTaskRoutes(api, h)
	SetupListRoutes(api, h)
	SetupAnalyticsRoutes(api, h)
	SetupAdminRoutes(api, h)

	// WebSocket lives outside the versioned API group.
	SetupWebSocketRoutes(app, h.JWTSecret, wsManager)
}
