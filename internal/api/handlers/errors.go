// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/logger"
	"github.com/fittrackd/fittrackd/internal/services"
)

// Response status tags
const (
	StatusFail     = "fail"
	StatusError    = "error"
	StatusNotFound = "not found"
)

// ErrMsgInternal is the generic message for unexpected failures; the
// cause is logged, never returned to the client.
const ErrMsgInternal = "error, please try again or contact the administrator"

// ErrMsgInvalidReqBody is returned when the request body can not be parsed
const ErrMsgInvalidReqBody = "invalid request body"

// errorBody is the envelope for every error response
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(errorBody{Status: StatusFail, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorBody{Status: StatusNotFound, Message: message})
}

func serverError(c *fiber.Ctx, err error) error {
	logger.ErrorWithFields("Internal error", map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
		"error":  err.Error(),
	})
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Status:  StatusError,
		Message: ErrMsgInternal,
	})
}

// notFoundErrors render as 404 with the sentinel's message
var notFoundErrors = []error{
	services.ErrUserNotFound,
	services.ErrWorkoutNotFound,
	services.ErrCommentNotFound,
	services.ErrTaskNotFound,
	services.ErrReportNotFound,
	services.ErrActionNotFound,
	services.ErrAppealNotFound,
}

// conflictErrors render as 400 with the sentinel's message
var conflictErrors = []error{
	services.ErrTaskNotDeletable,
	services.ErrTaskNotAbortable,
	services.ErrSelfReport,
	services.ErrReportExists,
	services.ErrObjectSuspended,
	services.ErrAlreadySuspended,
	services.ErrAlreadyReactivated,
	services.ErrUserWarningExists,
	services.ErrInvalidActionType,
	services.ErrMissingActionTarget,
	services.ErrActionTargetMismatch,
	services.ErrActionNotAllowed,
	services.ErrAppealExists,
	services.ErrNotSanctionedUser,
	services.ErrNotAppealable,
	services.ErrAppealProcessed,
	services.ErrUserAlreadyReactivated,
	services.ErrUserReactivatedAfterAppeal,
}

// serviceError translates a typed service error into the matching HTTP
// response. Unknown errors become a 500 with a generic message.
func serviceError(c *fiber.Ctx, err error) error {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return notFound(c, sentinel.Error())
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			return fail(c, fiber.StatusBadRequest, sentinel.Error())
		}
	}
	return serverError(c, err)
}
