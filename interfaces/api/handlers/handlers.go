package handlers

import (
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	UserService       services.UserService
	TaskService       services.TaskService
	ListService       services.ListService
	AnalyticsService  services.AnalyticsService
	RecurrenceService services.RecurrenceService
	JWTSecret         string
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	TaskHandler      *TaskHandler
	ListHandler      *ListHandler
	AnalyticsHandler *AnalyticsHandler
	AdminHandler     *AdminHandler
	JWTSecret        string
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:      NewAuthHandler(services.UserService),
		UserHandler:      NewUserHandler(services.UserService),
		TaskHandler:      NewTaskHandler(services.TaskService),
		ListHandler:      NewListHandler(services.ListService),
		AnalyticsHandler: NewAnalyticsHandler(services.AnalyticsService),
		AdminHandler:     NewAdminHandler(services.RecurrenceService),
		JWTSecret:        services.JWTSecret,
	}
}
