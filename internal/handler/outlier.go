package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/service"
)

type OutlierHandler struct {
	svc *service.OutlierService
}

func NewOutlierHandler(svc *service.OutlierService) *OutlierHandler {
	return &OutlierHandler{svc: svc}
}

// List handles GET /api/outliers?channelId=X
func (h *OutlierHandler) List(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(fiber.Query[string](c, "channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	outliers, err := h.svc.List(c.Context(), middleware.UserID(c), channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list outliers")
	}
	if outliers == nil {
		outliers = []model.Outlier{}
	}
	return c.JSON(outliers)
}
