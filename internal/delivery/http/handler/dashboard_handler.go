package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/usecase"
)

type DashboardHandler struct {
	usecase usecase.DashboardUsecase
	errors  usecase.ErrorHandler
}

func NewDashboardHandler(usecase usecase.DashboardUsecase, errors usecase.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		usecase: usecase,
		errors:  errors,
	}
}

// Overview godoc
// @Summary Dashboard stats and recent activity
// @Tags dashboard
// @Produce json
// @Param activity_limit query int false "Number of activity entries" default(10)
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.usecase.Overview(c.UserContext(), c.QueryInt("activity_limit", 10))
	if err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(overview, "Dashboard retrieved successfully"))
}
