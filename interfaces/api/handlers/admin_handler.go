package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

// AdminHandler exposes operational endpoints, currently the manual backfill
// trigger used when the scheduled sweep needs to be re-run on demand.
type AdminHandler struct {
	recurrenceService services.RecurrenceService
}

func NewAdminHandler(recurrenceService services.RecurrenceService) *AdminHandler {
	return &AdminHandler{recurrenceService: recurrenceService}
}

func (h *AdminHandler) TriggerBackfill(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger.InfoContext(ctx, "Manual backfill sweep triggered")

	summary, err := h.recurrenceService.RunBackfill(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Manual backfill sweep failed", "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	return utils.SuccessResponse(c, summary)
}
