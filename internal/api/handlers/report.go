package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
	"github.com/fittrackd/fittrackd/internal/services"
)

// ReportHandler handles HTTP requests for reports and report actions
type ReportHandler struct {
	reportService *services.Report
	actionService *services.Action
}

// NewReportHandler creates a new instance of ReportHandler
func NewReportHandler(reportService *services.Report, actionService *services.Action) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		actionService: actionService,
	}
}

// CreateReport handles filing a new report
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		ObjectType string `json:"object_type"`
		ObjectID   uint   `json:"object_id"`
		Note       string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}

	objectType, err := models.ParseReportedObjectType(body.ObjectType)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if body.ObjectID == 0 {
		return fail(c, fiber.StatusBadRequest, "object_id is required")
	}

	report, err := h.reportService.Create(c.Context(), user.ID, objectType, body.ObjectID, body.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(report))
}

// ListReports handles the moderator report listing with pagination
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	filters := repos.ReportFilters{}
	if objectType := c.Query("object_type"); objectType != "" {
		parsed, err := models.ParseReportedObjectType(objectType)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		filters.ObjectType = parsed
	}
	if resolved := c.Query("resolved"); resolved != "" {
		value := resolved == "true"
		filters.Resolved = &value
	}

	reports, pagination, err := h.reportService.List(c.Context(), filters, page)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(ListResponse[models.Report]{
		Rows:       reports,
		Pagination: pagination,
	}))
}

// GetReport handles retrieving one report with its audit trail and
// moderator comments.
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid report id")
	}

	report, err := h.reportService.Get(c.Context(), uint(reportID))
	if err != nil {
		return serviceError(c, err)
	}
	actions, err := h.reportService.Actions(c.Context(), report.ID)
	if err != nil {
		return serviceError(c, err)
	}
	comments, err := h.reportService.Comments(c.Context(), report.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(success(fiber.Map{
		"report":   report,
		"actions":  actions,
		"comments": comments,
	}))
}

// UpdateReport handles resolve/reopen transitions and moderator comments.
// A body with "resolved" toggles the resolution state; a body with
// "comment" attaches a comment without touching the state.
func (h *ReportHandler) UpdateReport(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid report id")
	}

	var body struct {
		Resolved *bool  `json:"resolved"`
		Comment  string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}
	if body.Resolved == nil && body.Comment == "" {
		return fail(c, fiber.StatusBadRequest, "resolved or comment is required")
	}

	if body.Comment != "" {
		if _, err := h.reportService.AddComment(c.Context(), user.ID, uint(reportID), body.Comment); err != nil {
			return serviceError(c, err)
		}
	}
	if body.Resolved != nil {
		if _, err := h.reportService.SetResolved(c.Context(), user.ID, uint(reportID), *body.Resolved); err != nil {
			return serviceError(c, err)
		}
	}

	report, err := h.reportService.Get(c.Context(), uint(reportID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(report))
}

// CreateAction handles recording a moderator decision on a report
func (h *ReportHandler) CreateAction(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid report id")
	}

	var body struct {
		ActionType string  `json:"action_type"`
		TargetID   uint    `json:"target_id"`
		Reason     *string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}

	action, err := h.actionService.Create(c.Context(), user.ID, uint(reportID),
		models.ActionType(body.ActionType), body.TargetID, body.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(action))
}
