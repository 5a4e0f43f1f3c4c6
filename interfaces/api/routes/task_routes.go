package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/handlers"
	"github.com/cold-17/smart-todo-app-sub000/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(h.JWTSecret))

	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/", h.TaskHandler.GetTasks)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)

	tasks.Put("/:id/recurrence", h.TaskHandler.SetRecurrence)
	tasks.Delete("/:id/recurrence", h.TaskHandler.RemoveRecurrence)

	tasks.Post("/:id/subtasks", h.TaskHandler.AddSubtask)
	tasks.Put("/:id/subtasks/:subtaskId", h.TaskHandler.UpdateSubtask)
	tasks.Delete("/:id/subtasks/:subtaskId", h.TaskHandler.DeleteSubtask)
}
