package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if handler.exports == nil {
		return handler.NotFound(c)
	}

	document, err := handler.exports.Export(c.UserContext(), userID)
	if err != nil {
		return serviceAPIError(c, err)
	}

	serialized, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, buildExportFilename(time.Now().In(handler.location)))
	return c.Send(serialized)
}

func (handler *Handler) ImportJSON(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if handler.imports == nil {
		return handler.NotFound(c)
	}

	summary, err := handler.imports.Import(c.UserContext(), userID, c.Body())
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(summary)
}
