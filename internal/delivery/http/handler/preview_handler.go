package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/preview"
	"backoffice-agent/internal/usecase"
)

type PreviewHandler struct {
	registry *preview.Registry
}

func NewPreviewHandler(registry *preview.Registry) *PreviewHandler {
	return &PreviewHandler{registry: registry}
}

// Serve returns a registered blob inline until it is revoked.
func (h *PreviewHandler) Serve(c *fiber.Ctx) error {
	entry, ok := h.registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse(string(usecase.ClassClient), "Preview expired or not found"),
		)
	}

	c.Set(fiber.HeaderContentType, entry.ContentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": entry.Filename}))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(entry.Data)
}
