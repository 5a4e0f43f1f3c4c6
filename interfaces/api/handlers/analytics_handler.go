package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	summary, err := h.analyticsService.Summary(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build analytics summary", "user_id", user.ID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	return utils.SuccessResponse(c, summary)
}
