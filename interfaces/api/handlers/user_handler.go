package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userService.GetProfile(ctx, user.ID)
	if err != nil {
		logger.WarnContext(ctx, "Profile not found", "user_id", user.ID)
		return utils.NotFoundResponse(c, "User not found")
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(profile))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	updatedUser, err := h.userService.UpdateProfile(ctx, user.ID, &req)
	if err != nil {
		logger.ErrorContext(ctx, "Profile update failed", "user_id", user.ID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(updatedUser))
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.userService.DeleteUser(ctx, user.ID); err != nil {
		logger.ErrorContext(ctx, "Account deletion failed", "user_id", user.ID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	logger.InfoContext(ctx, "Account deleted", "user_id", user.ID)
	return utils.NoContentResponse(c)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := h.userService.ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list users", "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	responses := make([]*dto.UserResponse, len(users))
	for i, user := range users {
		responses[i] = dto.UserToUserResponse(user)
	}

	return utils.PaginatedSuccessResponse(c, responses, total, page, limit)
}
