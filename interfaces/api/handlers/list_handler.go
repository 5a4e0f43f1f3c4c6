package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

type ListHandler struct {
	listService services.ListService
}

func NewListHandler(listService services.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

func (h *ListHandler) CreateList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	list, err := h.listService.CreateList(ctx, user.ID, &req)
	if err != nil {
		logger.WarnContext(ctx, "List creation failed", "user_id", user.ID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.CreatedResponse(c, dto.ListToListResponse(list))
}

func (h *ListHandler) GetLists(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	lists, err := h.listService.GetUserLists(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list task lists", "user_id", user.ID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	responses := make([]*dto.ListResponse, len(lists))
	for i, list := range lists {
		responses[i] = dto.ListToListResponse(list)
	}

	return utils.SuccessResponse(c, responses)
}

func (h *ListHandler) GetList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid list ID")
	}

	list, err := h.listService.GetList(ctx, user.ID, listID)
	if err != nil {
		return utils.NotFoundResponse(c, "List not found")
	}

	return utils.SuccessResponse(c, dto.ListToListResponse(list))
}

func (h *ListHandler) UpdateList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid list ID")
	}

	var req dto.UpdateListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	list, err := h.listService.UpdateList(ctx, user.ID, listID, &req)
	if err != nil {
		logger.WarnContext(ctx, "List update failed", "list_id", listID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.ListToListResponse(list))
}

func (h *ListHandler) DeleteList(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid list ID")
	}

	if err := h.listService.DeleteList(ctx, user.ID, listID); err != nil {
		logger.WarnContext(ctx, "List deletion failed", "list_id", listID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.NoContentResponse(c)
}

func (h *ListHandler) AddMember(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid list ID")
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	list, err := h.listService.AddMember(ctx, user.ID, listID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Adding member failed", "list_id", listID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.SuccessResponse(c, dto.ListToListResponse(list))
}

func (h *ListHandler) RemoveMember(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	listID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid list ID")
	}
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid member ID")
	}

	if err := h.listService.RemoveMember(ctx, user.ID, listID, memberID); err != nil {
		logger.WarnContext(ctx, "Removing member failed", "list_id", listID, "error", err)
		return utils.BadRequestResponse(c, err.Error())
	}

	return utils.NoContentResponse(c)
}
