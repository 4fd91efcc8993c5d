package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceAPIError maps service failures onto status codes. Store failures
// surface as 503 with the failed operation named, stale writes as 409.
func serviceAPIError(c *fiber.Ctx, err error) error {
	var persistence *services.PersistenceError
	switch {
	case errors.As(err, &persistence) && persistence.Conflict():
		return apiError(c, fiber.StatusConflict, "calendar changed, reload and retry")
	case errors.As(err, &persistence):
		logrus.Errorf("api: %s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusServiceUnavailable, persistence.Op+" failed")
	case errors.Is(err, services.ErrRoutineNotFound),
		errors.Is(err, services.ErrNoActiveRoutine),
		errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrEntryIndexOutOfRange),
		errors.Is(err, services.ErrEntryNameRequired),
		errors.Is(err, services.ErrRoutineNameRequired),
		errors.Is(err, services.ErrRoutineTypeInvalid),
		errors.Is(err, services.ErrRoutineScheduleSize),
		errors.Is(err, services.ErrRoutineDegenerate),
		errors.Is(err, services.ErrWorkoutNameRequired),
		errors.Is(err, services.ErrImportDocumentMalformed):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		logrus.Errorf("api: %s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func parseDateParam(c *fiber.Ctx) (string, error) {
	key, ok := services.NormalizeDateKey(c.Params("date"))
	if !ok {
		return "", services.ErrInvalidDate
	}
	return key, nil
}

func parseEntryIndexParam(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return 0, services.ErrEntryIndexOutOfRange
	}
	return index, nil
}

func buildExportFilename(now time.Time) string {
	return fmt.Sprintf("gymcal-export-%s.json", now.Format("2006-01-02"))
}

func setExportAttachmentHeaders(c *fiber.Ctx, filename string) {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
