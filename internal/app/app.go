// Package app wires the database, services, queue and HTTP layer together
package app

import (
	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/api/handlers"
	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/api/routes"
	"github.com/fittrackd/fittrackd/internal/db"
	"github.com/fittrackd/fittrackd/internal/db/repos"
	"github.com/fittrackd/fittrackd/internal/queue"
	"github.com/fittrackd/fittrackd/internal/services"
)

// Options configures the application
type Options struct {
	DB           db.Options
	EmailEnabled bool
	EmailSender  services.EmailSender
	ExportDir    string
	QueueSize    int
}

// App holds the wired application components
type App struct {
	DB     *gorm.DB
	Fiber  *fiber.App
	Queue  *queue.Queue
	Worker *services.Worker

	Tasks   *services.Task
	Reports *services.Report
	Actions *services.Action
	Appeals *services.Appeal
}

// New builds the application from its configuration
func New(opts Options) (*App, error) {
	database, err := db.New(opts.DB)
	if err != nil {
		return nil, err
	}
	return NewWithDB(database, opts), nil
}

// NewWithDB builds the application on an existing database connection.
// Used by tests to run against in-memory sqlite.
func NewWithDB(database *gorm.DB, opts Options) *App {
	if opts.EmailSender == nil {
		opts.EmailSender = services.LogEmailSender{}
	}

	userRepo := repos.NewUserRepository(database)
	workoutRepo := repos.NewWorkoutRepository(database)
	commentRepo := repos.NewCommentRepository(database)
	taskRepo := repos.NewTaskRepository(database)
	reportRepo := repos.NewReportRepository(database)
	appealRepo := repos.NewAppealRepository(database)
	notificationRepo := repos.NewNotificationRepository(database)

	q := queue.New(opts.QueueSize)
	emailService := services.NewEmailService(opts.EmailSender, opts.EmailEnabled)
	notificationService := services.NewNotificationService(notificationRepo)

	taskService := services.NewTaskService(taskRepo, q)
	reportService := services.NewReportService(reportRepo, userRepo, workoutRepo, commentRepo)
	actionService := services.NewActionService(reportRepo, appealRepo, userRepo, workoutRepo, commentRepo, notificationService, emailService)
	appealService := services.NewAppealService(appealRepo, reportRepo, userRepo, workoutRepo, commentRepo, notificationService, emailService)
	worker := services.NewWorker(taskRepo, workoutRepo, commentRepo, userRepo, notificationService, emailService, q, opts.ExportDir)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	fiberApp.Use(middleware.Logger())
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	routes.Register(fiberApp, userRepo, routes.Handlers{
		Tasks:         handlers.NewTaskHandler(taskService),
		Reports:       handlers.NewReportHandler(reportService, actionService),
		Appeals:       handlers.NewAppealHandler(appealService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	})

	return &App{
		DB:      database,
		Fiber:   fiberApp,
		Queue:   q,
		Worker:  worker,
		Tasks:   taskService,
		Reports: reportService,
		Actions: actionService,
		Appeals: appealService,
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	status := "error"
	if code < fiber.StatusInternalServerError {
		status = "fail"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"message": err.Error(),
	})
}
