package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/application/serviceimpl"
	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.CreateTask(ctx, user.ID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Task creation failed", "user_id", user.ID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var filter dto.TaskFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		logger.WarnContext(ctx, "Invalid task filter", "error", err)
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}

	if err := utils.ValidateStruct(&filter); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	tasks, total, err := h.taskService.GetUserTasks(ctx, user.ID, &filter, (page-1)*limit, limit)
	if err != nil {
		if errors.Is(err, serviceimpl.ErrListNotFound) {
			return utils.NotFoundResponse(c, "List not found")
		}
		if errors.Is(err, serviceimpl.ErrNotListMember) {
			return utils.ForbiddenResponse(c, "Not a member of this list")
		}
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", user.ID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	responses := make([]*dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = dto.TaskToTaskResponse(task)
	}

	return utils.PaginatedSuccessResponse(c, responses, total, page, limit)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return utils.NotFoundResponse(c, "Task not found")
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// UpdateTask handles edits and completion. When completing a recurring task
// the next instance is spawned in the same request; a spawn failure comes
// back as a warning, never failing the completion itself.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, warning, err := h.taskService.UpdateTask(ctx, user.ID, taskID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Task update failed", "task_id", taskID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	if warning != "" {
		return utils.SuccessResponseWithWarning(c, dto.TaskToTaskResponse(task), warning)
	}
	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(ctx, user.ID, taskID); err != nil {
		return utils.NotFoundResponse(c, "Task not found")
	}

	return utils.NoContentResponse(c)
}

func (h *TaskHandler) SetRecurrence(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.SetRecurrenceRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.SetRecurrence(ctx, user.ID, taskID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Setting recurrence failed", "task_id", taskID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) RemoveRecurrence(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.taskService.RemoveRecurrence(ctx, user.ID, taskID)
	if err != nil {
		return utils.NotFoundResponse(c, "Task not found")
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) AddSubtask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.CreateSubtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.AddSubtask(ctx, user.ID, taskID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Adding subtask failed", "task_id", taskID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) UpdateSubtask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	subtaskID, err := uuid.Parse(c.Params("subtaskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid subtask ID")
	}

	var req dto.UpdateSubtaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.UpdateSubtask(ctx, user.ID, taskID, subtaskID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Updating subtask failed", "subtask_id", subtaskID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteSubtask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	subtaskID, err := uuid.Parse(c.Params("subtaskId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid subtask ID")
	}

	if err := h.taskService.DeleteSubtask(ctx, user.ID, taskID, subtaskID); err != nil {
		return utils.NotFoundResponse(c, "Subtask not found")
	}

	return utils.NoContentResponse(c)
}
