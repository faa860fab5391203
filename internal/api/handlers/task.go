package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/services"
)

// TaskHandler handles HTTP requests for upload and export tasks
type TaskHandler struct {
	taskService *services.Task
}

// NewTaskHandler creates a new instance of TaskHandler
func NewTaskHandler(taskService *services.Task) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateUploadTask handles creating a workout archive import task. The
// archive itself is stored by the upload collaborator; this endpoint
// receives its location.
func (h *TaskHandler) CreateUploadTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}
	if body.FilePath == "" {
		return fail(c, fiber.StatusBadRequest, "file_path is required")
	}

	task, err := h.taskService.Create(c.Context(), user.ID, models.TaskKindArchiveImport, body.FilePath, body.FileSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(task))
}

// RequestExport handles creating a user data export task
func (h *TaskHandler) RequestExport(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	task, err := h.taskService.Create(c.Context(), user.ID, models.TaskKindExport, "", 0)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(task))
}

// GetTask handles retrieving one of the caller's tasks
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := h.taskService.Get(c.Context(), user.ID, uint(taskID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(task))
}

// ListTasks handles listing the caller's tasks with pagination
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	page := c.QueryInt("page", 1)

	var kind models.TaskKind
	if kindStr := c.Query("kind"); kindStr != "" {
		parsed, err := models.ParseTaskKind(kindStr)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		kind = parsed
	}

	tasks, pagination, err := h.taskService.List(c.Context(), user.ID, kind, page)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(ListResponse[models.Task]{
		Rows:       tasks,
		Pagination: pagination,
	}))
}

// ListQueuedTasks handles the admin view of tasks waiting for the worker
func (h *TaskHandler) ListQueuedTasks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultMaxCount)

	tasks, err := h.taskService.ListQueued(c.Context(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(tasks))
}

// AbortTask handles aborting a queued or in-progress task
func (h *TaskHandler) AbortTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid task id")
	}

	task, err := h.taskService.Abort(c.Context(), user.ID, uint(taskID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(task))
}

// DeleteTask handles deleting a terminal task
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	taskID, err := c.ParamsInt("id")
	if err != nil || taskID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid task id")
	}

	if err := h.taskService.Delete(c.Context(), user.ID, uint(taskID)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
