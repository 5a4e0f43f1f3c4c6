package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers) {
	users := api.Group("/users")
	users.Use(middleware.Protected(h.JWTSecret))
	users.Get("/me", h.UserHandler.GetProfile)
	users.Put("/me", h.UserHandler.UpdateProfile)
	users.Delete("/me", h.UserHandler.DeleteAccount)
	users.Get("/", middleware.AdminOnly(), h.UserHandler.ListUsers)
}
