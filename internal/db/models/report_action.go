package models

import (
	"fmt"

	"gorm.io/gorm"
)

// ActionType enumerates the moderator decisions recorded in the audit trail
type ActionType string

// Action type constants
const (
	ActionUserSuspension      ActionType = "user_suspension"
	ActionUserUnsuspension    ActionType = "user_unsuspension"
	ActionUserWarning         ActionType = "user_warning"
	ActionUserWarningLifting  ActionType = "user_warning_lifting"
	ActionWorkoutSuspension   ActionType = "workout_suspension"
	ActionWorkoutUnsuspension ActionType = "workout_unsuspension"
	ActionCommentSuspension   ActionType = "comment_suspension"
	ActionCommentUnsuspension ActionType = "comment_unsuspension"
	ActionReportResolution    ActionType = "report_resolution"
	ActionReportReopening     ActionType = "report_reopening"
)

var actionTypes = []ActionType{
	ActionUserSuspension,
	ActionUserUnsuspension,
	ActionUserWarning,
	ActionUserWarningLifting,
	ActionWorkoutSuspension,
	ActionWorkoutUnsuspension,
	ActionCommentSuspension,
	ActionCommentUnsuspension,
	ActionReportResolution,
	ActionReportReopening,
}

// ParseActionType converts a string to an ActionType
func ParseActionType(str string) (ActionType, error) {
	for _, t := range actionTypes {
		if string(t) == str {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid action type: %s", str)
}

// ActionCategory groups action types by the kind of target they operate on
type ActionCategory string

// Action category constants
const (
	// ActionCategoryUser covers actions targeting a user account
	ActionCategoryUser ActionCategory = "user"
	// ActionCategoryWorkout covers actions targeting a workout
	ActionCategoryWorkout ActionCategory = "workout"
	// ActionCategoryComment covers actions targeting a comment
	ActionCategoryComment ActionCategory = "comment"
	// ActionCategoryReport covers resolution/reopening bookkeeping actions
	ActionCategoryReport ActionCategory = "report"
)

// Category returns the target category of the action type
func (t ActionType) Category() ActionCategory {
	switch t {
	case ActionUserSuspension, ActionUserUnsuspension, ActionUserWarning, ActionUserWarningLifting:
		return ActionCategoryUser
	case ActionWorkoutSuspension, ActionWorkoutUnsuspension:
		return ActionCategoryWorkout
	case ActionCommentSuspension, ActionCommentUnsuspension:
		return ActionCategoryComment
	default:
		return ActionCategoryReport
	}
}

// Sanction reports whether the action imposes a sanction that can be
// contested through an appeal.
func (t ActionType) Sanction() bool {
	switch t {
	case ActionUserSuspension, ActionUserWarning, ActionWorkoutSuspension, ActionCommentSuspension:
		return true
	default:
		return false
	}
}

// ReportAction is an append-only audit record of a moderator decision
// tied to a report. ModeratorID is nulled when the moderator account is
// deleted; rows are deleted with the sanctioned user.
type ReportAction struct {
	gorm.Model
	ReportID    uint       `json:"report_id" gorm:"not null;index"`
	ModeratorID *uint      `json:"moderator_id" gorm:"index"`
	ActionType  ActionType `json:"action_type" gorm:"not null;index"`
	Reason      *string    `json:"reason" gorm:"type:text"`
	UserID      *uint      `json:"user_id,omitempty" gorm:"index"`
	WorkoutID   *uint      `json:"workout_id,omitempty" gorm:"index"`
	CommentID   *uint      `json:"comment_id,omitempty" gorm:"index"`
}

// Validate ensures the populated target matches the action type's category
func (a *ReportAction) Validate() error {
	if _, err := ParseActionType(string(a.ActionType)); err != nil {
		return err
	}
	switch a.ActionType.Category() {
	case ActionCategoryUser:
		if a.UserID == nil {
			return fmt.Errorf("action %s requires a user id", a.ActionType)
		}
	case ActionCategoryWorkout:
		if a.WorkoutID == nil {
			return fmt.Errorf("action %s requires a workout id", a.ActionType)
		}
	case ActionCategoryComment:
		if a.CommentID == nil {
			return fmt.Errorf("action %s requires a comment id", a.ActionType)
		}
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new action
func (a *ReportAction) BeforeCreate(_ *gorm.DB) error {
	return a.Validate()
}
