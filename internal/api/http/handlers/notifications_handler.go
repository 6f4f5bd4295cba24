package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/dto"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/service"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)
	notifications, err := h.notifications.Feed(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), principal.User.ID); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
