package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/usecase"
)

type SessionHandler struct {
	usecase usecase.AuthUsecase
	errors  usecase.ErrorHandler
	logger  *zap.Logger
}

func NewSessionHandler(usecase usecase.AuthUsecase, errors usecase.ErrorHandler, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		usecase: usecase,
		errors:  errors,
		logger:  logger,
	}
}

// Status godoc
// @Summary Current session
// @Description Report whether a usable session is held, without calling the back office
// @Tags session
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/session [get]
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.usecase.Session(c.UserContext()), "Session status"))
}

// Login godoc
// @Summary Log in to the back office
// @Tags session
// @Accept json
// @Produce json
// @Param request body entity.LoginRequest true "Credentials"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req entity.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("Failed to parse request body", zap.Error(err))
		return badRequest(c, "Invalid request body")
	}

	user, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.errors, err)
	}

	return c.JSON(entity.NewSuccessResponse(entity.Session{Authenticated: true, User: user}, "Logged in"))
}

// Logout godoc
// @Summary Log out and clear the stored session
// @Tags session
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.usecase.Logout(c.UserContext()); err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Logged out"))
}

// Refresh godoc
// @Summary Rotate the token pair
// @Tags session
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/session/refresh [post]
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	if err := h.usecase.RefreshSession(c.UserContext()); err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Session refreshed"))
}

// Profile godoc
// @Summary Profile of the logged-in user
// @Tags session
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/session/profile [get]
func (h *SessionHandler) Profile(c *fiber.Ctx) error {
	user, err := h.usecase.Profile(c.UserContext())
	if err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(user, "Profile retrieved successfully"))
}

// ChangePassword godoc
// @Summary Change the password of the logged-in user
// @Tags session
// @Accept json
// @Produce json
// @Param request body entity.ChangePasswordRequest true "Passwords"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/session/password [post]
func (h *SessionHandler) ChangePassword(c *fiber.Ctx) error {
	var req entity.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.usecase.ChangePassword(c.UserContext(), req); err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Password changed"))
}
