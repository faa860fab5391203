package services

import "errors"

// Not-found errors. The API layer renders all of these as 404.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrActionNotFound  = errors.New("report action not found")
	ErrAppealNotFound  = errors.New("appeal not found")
)

// Task state errors
var (
	// ErrTaskNotQueued is raised by the worker when it picks up a task
	// that is no longer in the queued state.
	ErrTaskNotQueued = errors.New("task is not queued")
	// ErrTaskNotDeletable is raised when deleting a non-terminal task
	ErrTaskNotDeletable = errors.New("queued or ongoing workout upload task can not be deleted")
	// ErrTaskNotAbortable is raised when aborting a terminal task
	ErrTaskNotAbortable = errors.New("only queued and ongoing tasks can be aborted")
	// ErrMissingMessageID signals an internal inability to abort, not a
	// user error: the task row carries no queue correlation id.
	ErrMissingMessageID = errors.New("task has no message id")
)

// Report errors
var (
	ErrSelfReport      = errors.New("users can not report their own content")
	ErrReportExists    = errors.New("a report already exists for this object")
	ErrObjectSuspended = errors.New("reported object is already suspended")
)

// Report action errors
var (
	ErrAlreadySuspended     = errors.New("already suspended")
	ErrAlreadyReactivated   = errors.New("already reactivated")
	ErrUserWarningExists    = errors.New("user warning already exists for this report")
	ErrInvalidActionType    = errors.New("invalid action type")
	ErrMissingActionTarget  = errors.New("action target id is required")
	ErrActionTargetMismatch = errors.New("action target does not match the report")
	// ErrActionNotAllowed guards the reactivation types that may only be
	// produced by appeal processing.
	ErrActionNotAllowed = errors.New("action type can not be created directly")
)

// Appeal errors
var (
	ErrAppealExists               = errors.New("an appeal already exists for this action")
	ErrNotSanctionedUser          = errors.New("only the sanctioned user can appeal an action")
	ErrNotAppealable              = errors.New("only suspensions and warnings can be appealed")
	ErrAppealProcessed            = errors.New("appeal has already been processed")
	ErrUserAlreadyReactivated     = errors.New("user account has already been reactivated")
	ErrUserReactivatedAfterAppeal = errors.New("user account has been reactivated after appeal")
)
