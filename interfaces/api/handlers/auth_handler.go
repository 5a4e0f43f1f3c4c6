package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Registration failed", "email", req.Email, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	token, err := h.userService.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Token generation failed after registration", "user_id", user.ID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	return utils.CreatedResponse(c, &dto.RegisterResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	token, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "email", req.Email, "reason", err.Error())
		return utils.UnauthorizedResponse(c, "Invalid credentials")
	}

	return utils.SuccessResponse(c, &dto.LoginResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}
