package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
)

func SetupListRoutes(api fiber.Router, h *handlers.Handlers) {
	lists := api.Group("/lists")
	lists.Use(middleware.Protected(h.JWTSecret))

	lists.Post("/", h.ListHandler.CreateList)
	lists.Get("/", h.ListHandler.GetLists)
	lists.Get("/:id", h.ListHandler.GetList)
	lists.Put("/:id", h.ListHandler.UpdateList)
	lists.Delete("/:id", h.ListHandler.DeleteList)

	lists.Post("/:id/members", h.ListHandler.AddMember)
	lists.Delete("/:id/members/:memberId", h.ListHandler.RemoveMember)
}
