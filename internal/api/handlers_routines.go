package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListRoutines(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	routines, err := handler.routines.ListRoutines(c.UserContext(), userID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(routines)
}

func (handler *Handler) CreateRoutine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := routinePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	routine, err := handler.routines.SaveRoutine(c.UserContext(), userID, payload.routine())
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(routine)
}

func (handler *Handler) ApplyRoutine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	view, err := handler.calendar.ApplyRoutine(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}

// SwitchRoutine replaces future scheduled entries with the given routine.
// Completed, missed and past entries stay.
func (handler *Handler) SwitchRoutine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	view, err := handler.calendar.SwitchRoutine(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(view)
}
