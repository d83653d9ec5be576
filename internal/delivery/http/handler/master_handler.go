package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/usecase"
)

const maxPageLimit = 200

type MasterHandler struct {
	master *usecase.MasterData
	errors usecase.ErrorHandler
}

func NewMasterHandler(master *usecase.MasterData, errors usecase.ErrorHandler) *MasterHandler {
	return &MasterHandler{
		master: master,
		errors: errors,
	}
}

// Resources godoc
// @Summary Master data collections
// @Tags master
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/master [get]
func (h *MasterHandler) Resources(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.master.Resources(), "Available resources"))
}

// List godoc
// @Summary List a master data collection
// @Tags master
// @Produce json
// @Param resource path string true "Collection name, e.g. states"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Search term"
// @Param sort query string false "Sort field"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/v1/master/{resource} [get]
func (h *MasterHandler) List(c *fiber.Ctx) error {
	params := entity.ListParams{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
	if params.Limit > maxPageLimit {
		params.Limit = maxPageLimit
	}

	list, err := h.master.List(c.UserContext(), c.Params("resource"), params)
	if err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(list, "Resources retrieved successfully"))
}
