package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/version"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Upstream  string    `json:"upstream"`
}

// Health godoc
// @Summary Health check
// @Description Check if the agent is running and which back office it talks to
// @Tags health
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version.Version,
		Upstream:  h.config.API.BaseURL,
	}, "Service is healthy"))
}
