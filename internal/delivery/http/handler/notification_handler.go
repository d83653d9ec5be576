package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/notify"
)

type NotificationHandler struct {
	feed *notify.Feed
}

func NewNotificationHandler(feed *notify.Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// Recent godoc
// @Summary Recent user notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum entries" default(20)
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) Recent(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.feed.Recent(c.QueryInt("limit", 20)), "Notifications retrieved"))
}
