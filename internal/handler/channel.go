package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/service"
	"github.com/shrike012/Streamline/internal/youtube"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// Videos handles POST /api/channel/videos
func (h *ChannelHandler) Videos(c fiber.Ctx) error {
	var req struct {
		ChannelURL string `json:"channelUrl"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	url, errMsg := middleware.ValidateChannelURL(req.ChannelURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.VideosByURL(c.Context(), url)
	if err != nil {
		if errors.Is(err, service.ErrInvalidChannelURL) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "channelUrl must contain an @handle")
		}
		if errors.Is(err, youtube.ErrChannelNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch channel videos")
	}

	return c.JSON(resp)
}

// Track handles POST /api/channel/track
func (h *ChannelHandler) Track(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req struct {
		ChannelID               string `json:"channelId"`
		ChannelTitle            string `json:"channelTitle"`
		AnalyzedNiche           string `json:"analyzedNiche"`
		AnalyzedStyle           string `json:"analyzedStyle"`
		AnalyzedAttentionMarket string `json:"analyzedAttentionMarket"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if req.AnalyzedNiche == "" || req.AnalyzedStyle == "" || req.AnalyzedAttentionMarket == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS",
			"analyzedNiche, analyzedStyle, and analyzedAttentionMarket are required")
	}

	profile := &model.ChannelProfile{
		UserID:                  userID,
		ChannelID:               channelID,
		ChannelTitle:            req.ChannelTitle,
		AnalyzedNiche:           req.AnalyzedNiche,
		AnalyzedStyle:           req.AnalyzedStyle,
		AnalyzedAttentionMarket: req.AnalyzedAttentionMarket,
	}

	if err := h.svc.Track(c.Context(), profile); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to track channel")
	}

	return c.JSON(profile)
}

// Profiles handles GET /api/channel/profiles
func (h *ChannelHandler) Profiles(c fiber.Ctx) error {
	profiles, err := h.svc.Profiles(c.Context(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list profiles")
	}
	if profiles == nil {
		profiles = []model.ChannelProfile{}
	}
	return c.JSON(profiles)
}
