package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/usecase"
)

type FileHandler struct {
	usecase usecase.FileUsecase
	errors  usecase.ErrorHandler
	logger  *zap.Logger
}

func NewFileHandler(usecase usecase.FileUsecase, errors usecase.ErrorHandler, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		usecase: usecase,
		errors:  errors,
		logger:  logger,
	}
}

type DownloadRequest struct {
	Name string `json:"name"`
}

type DownloadResponse struct {
	Path string `json:"path"`
}

// filenameParam returns the decoded :filename route parameter.
func filenameParam(c *fiber.Ctx) string {
	raw := c.Params("filename")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// View godoc
// @Summary Open a stored file
// @Description Fetch a file from the back office and return a short-lived preview URL
// @Tags files
// @Produce json
// @Param filename path string true "Stored filename"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/files/view/{filename} [get]
func (h *FileHandler) View(c *fiber.Ctx) error {
	link, err := h.usecase.View(c.UserContext(), filenameParam(c))
	if err != nil {
		return respondError(c, h.errors, err)
	}
	return c.JSON(entity.NewSuccessResponse(link, "Preview ready"))
}

// Download godoc
// @Summary Save a stored file into the download folder
// @Tags files
// @Accept json
// @Produce json
// @Param filename path string true "Stored filename"
// @Param request body DownloadRequest false "Name to save under"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/files/download/{filename} [post]
func (h *FileHandler) Download(c *fiber.Ctx) error {
	var req DownloadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	path, err := h.usecase.Download(c.UserContext(), filenameParam(c), req.Name)
	if err != nil {
		return respondError(c, h.errors, err)
	}

	h.logger.Info("File downloaded", zap.String("path", path))
	return c.JSON(entity.NewSuccessResponse(DownloadResponse{Path: path}, "File downloaded"))
}
