package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	view, err := handler.calendar.Calendar(c.UserContext(), userID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

// RefreshCalendar tops the scheduling horizon up with the active routine.
// Clients call it once per app start.
func (handler *Handler) RefreshCalendar(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	view, err := handler.calendar.ApplyActiveRoutine(c.UserContext(), userID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) GetCalendarDay(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	date, err := parseDateParam(c)
	if err != nil {
		return serviceAPIError(c, err)
	}

	detail, err := handler.calendar.DayDetail(c.UserContext(), userID, date)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(detail)
}

func (handler *Handler) AddCalendarEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	date, err := parseDateParam(c)
	if err != nil {
		return serviceAPIError(c, err)
	}
	payload := entryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	view, err := handler.calendar.AddEntry(c.UserContext(), userID, date, payload.Name)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (handler *Handler) RemoveCalendarEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	date, index, err := dateAndIndexParams(c)
	if err != nil {
		return serviceAPIError(c, err)
	}

	view, err := handler.calendar.RemoveEntry(c.UserContext(), userID, date, index)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) ToggleCalendarEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	date, index, err := dateAndIndexParams(c)
	if err != nil {
		return serviceAPIError(c, err)
	}

	view, err := handler.calendar.ToggleEntry(c.UserContext(), userID, date, index)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) CompleteCalendarEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	date, index, err := dateAndIndexParams(c)
	if err != nil {
		return serviceAPIError(c, err)
	}
	payload := completeEntryPayload{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	view, err := handler.calendar.CompleteEntry(c.UserContext(), userID, date, index, payload.WorkoutLogID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

func dateAndIndexParams(c *fiber.Ctx) (string, int, error) {
	date, err := parseDateParam(c)
	if err != nil {
		return "", 0, err
	}
	index, err := parseEntryIndexParam(c)
	if err != nil {
		return "", 0, err
	}
	return date, index, nil
}
