package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/services"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *services.Notification
}

// NewNotificationHandler creates a new instance of NotificationHandler
func NewNotificationHandler(notificationService *services.Notification) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications handles listing the caller's notifications
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notifications, err := h.notificationService.ListForUser(c.Context(), user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(notifications))
}

// MarkNotificationRead handles marking one notification as read
func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.notificationService.MarkRead(c.Context(), uint(notificationID)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
