// Package routes wires the API handlers into the fiber app
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/api/handlers"
	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/db/repos"
)

// Handlers groups the handler instances the router needs
type Handlers struct {
	Tasks         *handlers.TaskHandler
	Reports       *handlers.ReportHandler
	Appeals       *handlers.AppealHandler
	Notifications *handlers.NotificationHandler
}

// Register configures all API routes
func Register(app *fiber.App, users *repos.UserRepository, h Handlers) {
	api := app.Group("/api", middleware.RequireUser(users))

	// Task routes
	uploadTasks := api.Group("/workouts/upload-tasks")
	uploadTasks.Post("/", h.Tasks.CreateUploadTask)
	uploadTasks.Post("/:id/abort", h.Tasks.AbortTask)

	tasks := api.Group("/tasks")
	tasks.Get("/queued", middleware.RequireModerator(), h.Tasks.ListQueuedTasks)
	tasks.Get("/", h.Tasks.ListTasks)
	tasks.Get("/:id", h.Tasks.GetTask)
	tasks.Delete("/:id", h.Tasks.DeleteTask)

	api.Post("/users/export-request", h.Tasks.RequestExport)

	// Report routes
	reports := api.Group("/reports")
	reports.Post("/", h.Reports.CreateReport)
	reports.Get("/", middleware.RequireModerator(), h.Reports.ListReports)
	reports.Get("/:id", middleware.RequireModerator(), h.Reports.GetReport)
	reports.Patch("/:id", middleware.RequireModerator(), h.Reports.UpdateReport)
	reports.Post("/:id/actions", middleware.RequireModerator(), h.Reports.CreateAction)

	// Appeal routes
	appeals := api.Group("/appeals")
	appeals.Post("/", h.Appeals.CreateAppeal)
	appeals.Patch("/:id", middleware.RequireModerator(), h.Appeals.ProcessAppeal)

	// Notification routes
	notifications := api.Group("/notifications")
	notifications.Get("/", h.Notifications.ListNotifications)
	notifications.Post("/:id/read", h.Notifications.MarkNotificationRead)
}
