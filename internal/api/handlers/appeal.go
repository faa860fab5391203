package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/services"
)

// AppealHandler handles HTTP requests for appeals
type AppealHandler struct {
	appealService *services.Appeal
}

// NewAppealHandler creates a new instance of AppealHandler
func NewAppealHandler(appealService *services.Appeal) *AppealHandler {
	return &AppealHandler{
		appealService: appealService,
	}
}

// CreateAppeal handles a sanctioned user contesting a report action
func (h *AppealHandler) CreateAppeal(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		ActionID uint   `json:"action_id"`
		Text     string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}
	if body.ActionID == 0 {
		return fail(c, fiber.StatusBadRequest, "action_id is required")
	}
	if body.Text == "" {
		return fail(c, fiber.StatusBadRequest, "text is required")
	}

	appeal, err := h.appealService.Create(c.Context(), user.ID, body.ActionID, body.Text)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(appeal))
}

// ProcessAppeal handles a moderator approving or rejecting an appeal
func (h *AppealHandler) ProcessAppeal(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	appealID, err := c.ParamsInt("id")
	if err != nil || appealID < 1 {
		return fail(c, fiber.StatusBadRequest, "invalid appeal id")
	}

	var body struct {
		Approved *bool  `json:"approved"`
		Reason   string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrMsgInvalidReqBody)
	}
	if body.Approved == nil {
		return fail(c, fiber.StatusBadRequest, "approved is required")
	}
	if !*body.Approved && body.Reason == "" {
		return fail(c, fiber.StatusBadRequest, "reason is required to reject an appeal")
	}

	appeal, err := h.appealService.Process(c.Context(), user.ID, uint(appealID), *body.Approved, body.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(success(appeal))
}
