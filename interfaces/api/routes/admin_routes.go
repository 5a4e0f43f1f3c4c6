package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
)

func SetupAdminRoutes(api fiber.Router, h *handlers.Handlers) {
	admin := api.Group("/admin")
	admin.Use(middleware.Protected(h.JWTSecret), middleware.AdminOnly())
	admin.Post("/recurrence/backfill", h.AdminHandler.TriggerBackfill)
}
