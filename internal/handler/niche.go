package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/embedding"
	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/service"
)

type NicheHandler struct {
	svc *service.NicheService
}

func NewNicheHandler(svc *service.NicheService) *NicheHandler {
	return &NicheHandler{svc: svc}
}

// Search handles POST /api/niche/search
func (h *NicheHandler) Search(c fiber.Ctx) error {
	var req struct {
		Query     string `json:"query"`
		TimeFrame string `json:"timeFrame"`
		VideoType string `json:"videoType"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	query, errMsg := middleware.ValidateSearchQuery(req.Query)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	channels, err := h.svc.Search(c.Context(), query, req.TimeFrame, req.VideoType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeFrame) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
				"timeFrame must be one of: last_week, last_month, last_year, last_2_years")
		}
		if errors.Is(err, service.ErrInvalidVideoType) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
				"videoType must be shorts or longform")
		}
		if errors.Is(err, embedding.ErrUpstream) {
			return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "Embedding service unavailable")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Niche search failed")
	}

	Metrics.NicheSearchesTotal.Inc()
	return c.JSON(fiber.Map{
		"query":    query,
		"channels": channels,
	})
}
