package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	websocketManager "github.com/cold-17/smart-todo-app-sub000/infrastructure/websocket"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
	websocketHandler "github.com/cold-17/smart-todo-app-sub000/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, jwtSecret string, manager *websocketManager.WebSocketManager) {
	wsHandler := websocketHandler.NewWebSocketHandler(manager)

	app.Use("/ws", middleware.Optional(jwtSecret), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
