package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/embedding"
	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/service"
	"github.com/shrike012/Streamline/internal/youtube"
)

type CompetitorHandler struct {
	svc     *service.CompetitorService
	insight *service.InsightService
}

func NewCompetitorHandler(svc *service.CompetitorService, insight *service.InsightService) *CompetitorHandler {
	return &CompetitorHandler{svc: svc, insight: insight}
}

// Lists handles GET /api/channels/:channelId/lists
func (h *CompetitorHandler) Lists(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	lists, err := h.svc.Lists(c.Context(), middleware.UserID(c), channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list competitor lists")
	}
	return c.JSON(lists)
}

// CreateList handles POST /api/channels/:channelId/lists
func (h *CompetitorHandler) CreateList(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	list, err := h.svc.CreateList(c.Context(), middleware.UserID(c), channelID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListNameInvalid):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case errors.Is(err, service.ErrListNameTaken):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "NAME_TAKEN", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create list")
	}

	return c.Status(fiber.StatusCreated).JSON(list)
}

// RenameList handles PUT /api/channels/:channelId/lists/:listId
func (h *CompetitorHandler) RenameList(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	listID := c.Params("listId")

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, err := h.svc.RenameList(c.Context(), middleware.UserID(c), channelID, listID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListNameInvalid):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case errors.Is(err, service.ErrListNameTaken):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "NAME_TAKEN", err.Error())
		case errors.Is(err, service.ErrListNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "List not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rename list")
	}

	return c.JSON(fiber.Map{"listId": listID, "name": name})
}

// DeleteList handles DELETE /api/lists/:listId
func (h *CompetitorHandler) DeleteList(c fiber.Ctx) error {
	err := h.svc.DeleteList(c.Context(), middleware.UserID(c), c.Params("listId"))
	if err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "List not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete list")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Competitors handles GET /api/lists/:listId/competitors
func (h *CompetitorHandler) Competitors(c fiber.Ctx) error {
	comps, err := h.svc.Competitors(c.Context(), middleware.UserID(c), c.Params("listId"))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list competitors")
	}
	return c.JSON(comps)
}

// AddCompetitor handles POST /api/lists/:listId/competitors
func (h *CompetitorHandler) AddCompetitor(c fiber.Ctx) error {
	var req struct {
		ChannelID string `json:"channelId"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	comp, err := h.svc.AddCompetitor(c.Context(), middleware.UserID(c), c.Params("listId"), channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "List not found")
		case errors.Is(err, service.ErrCompetitorExists):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "ALREADY_EXISTS", err.Error())
		case errors.Is(err, youtube.ErrChannelNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add competitor")
	}

	return c.Status(fiber.StatusCreated).JSON(comp)
}

// RemoveCompetitor handles DELETE /api/lists/:listId/competitors/:competitorChannelId
func (h *CompetitorHandler) RemoveCompetitor(c fiber.Ctx) error {
	err := h.svc.RemoveCompetitor(c.Context(), middleware.UserID(c), c.Params("listId"), c.Params("competitorChannelId"))
	if err != nil {
		if errors.Is(err, service.ErrCompetitorNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel is not in this list")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove competitor")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Insight handles GET /api/channels/:channelId/insight?competitorId=X
func (h *CompetitorHandler) Insight(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	competitorID, errMsg := middleware.ValidateChannelID(fiber.Query[string](c, "competitorId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "competitorId query parameter is required")
	}

	result, err := h.insight.ClassifyCompetitor(c.Context(), middleware.UserID(c), channelID, competitorID)
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "NOT_ANALYZED",
				"Could not analyze: one of the channels has no stored profile")
		}
		if errors.Is(err, embedding.ErrUpstream) {
			return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "Embedding service unavailable")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to classify competitor")
	}

	Metrics.InsightsTotal.WithLabelValues(string(result.CompetitorType)).Inc()
	return c.JSON(result)
}
