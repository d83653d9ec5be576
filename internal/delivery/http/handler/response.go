package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/usecase"
)

// respondError classifies err, notifies the user once and writes the
// envelope. The gateway status reflects the class; the back-office status is
// carried in error.status.
func respondError(c *fiber.Ctx, errors usecase.ErrorHandler, err error) error {
	cl := errors.Handle(err)
	return c.Status(gatewayStatus(cl)).JSON(
		entity.NewErrorResponse(string(cl.Class), cl.Message).WithStatus(cl.Status),
	)
}

func gatewayStatus(cl usecase.Classification) int {
	switch cl.Class {
	case usecase.ClassAuth, usecase.ClassMalformedCredential:
		return fiber.StatusUnauthorized
	case usecase.ClassClient:
		if cl.Status >= 400 && cl.Status < 500 {
			return cl.Status
		}
		return fiber.StatusBadRequest
	case usecase.ClassNetwork, usecase.ClassServer:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(
		entity.NewErrorResponse(string(usecase.ClassClient), message),
	)
}
