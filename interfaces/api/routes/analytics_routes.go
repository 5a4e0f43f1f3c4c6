package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
)

func SetupAnalyticsRoutes(api fiber.Router, h *handlers.Handlers) {
	analytics := api.Group("/analytics")
	analytics.Use(middleware.Protected(h.JWTSecret))
	analytics.Get("/summary", h.AnalyticsHandler.GetSummary)
}
