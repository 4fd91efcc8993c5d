package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired)

	calendar := api.Group("/calendar")
	calendar.Get("/", handler.GetCalendar)
	calendar.Post("/refresh", handler.RefreshCalendar)
	calendar.Get("/days/:date", handler.GetCalendarDay)
	calendar.Post("/days/:date/entries", handler.AddCalendarEntry)
	calendar.Delete("/days/:date/entries/:index", handler.RemoveCalendarEntry)
	calendar.Post("/days/:date/entries/:index/toggle", handler.ToggleCalendarEntry)
	calendar.Post("/days/:date/entries/:index/complete", handler.CompleteCalendarEntry)

	api.Get("/routines", handler.ListRoutines)
	api.Post("/routines", handler.CreateRoutine)
	api.Post("/routines/:id/apply", handler.ApplyRoutine)
	api.Post("/routines/:id/switch", handler.SwitchRoutine)

	api.Get("/workouts", handler.ListWorkouts)
	api.Post("/workouts", handler.CreateWorkout)

	api.Get("/export", handler.ExportJSON)
	api.Post("/import", handler.ImportJSON)
}
