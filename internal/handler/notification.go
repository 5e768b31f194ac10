package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/model"
	"github.com/shrike012/Streamline/internal/repository"
)

type NotificationHandler struct {
	repo *repository.NotificationRepo
}

func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	notifs, err := h.repo.ListByUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
	}
	if notifs == nil {
		notifs = []model.Notification{}
	}
	return c.JSON(notifs)
}

// MarkAllRead handles POST /api/notifications/read
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	if err := h.repo.MarkAllRead(c.Context(), middleware.UserID(c)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications read")
	}
	return c.JSON(fiber.Map{"success": true})
}
