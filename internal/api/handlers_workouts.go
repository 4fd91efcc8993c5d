package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListWorkouts(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	workouts, err := handler.workouts.ListWorkouts(c.UserContext(), userID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(workouts)
}

func (handler *Handler) CreateWorkout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := workoutPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	workout, err := handler.workouts.AddWorkout(c.UserContext(), userID, payload.Name)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(workout)
}
