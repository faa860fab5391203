package services

import (
	"context"
	"errors"
	"time"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
)

// Action handles moderator decisions on reports: suspensions,
// unsuspensions and warnings, recorded as an append-only audit trail.
type Action struct {
	reports       *repos.ReportRepository
	appeals       *repos.AppealRepository
	users         *repos.UserRepository
	workouts      *repos.WorkoutRepository
	comments      *repos.CommentRepository
	notifications *Notification
	emails        *Email
}

// NewActionService creates a new instance of the action service
func NewActionService(
	reports *repos.ReportRepository,
	appeals *repos.AppealRepository,
	users *repos.UserRepository,
	workouts *repos.WorkoutRepository,
	comments *repos.CommentRepository,
	notifications *Notification,
	emails *Email,
) *Action {
	return &Action{
		reports:       reports,
		appeals:       appeals,
		users:         users,
		workouts:      workouts,
		comments:      comments,
		notifications: notifications,
		emails:        emails,
	}
}

// Create records a moderator decision on a report. Reactivation types
// (user_unsuspension, user_warning_lifting) are rejected here: they are
// only produced by appeal processing. Resolution bookkeeping actions are
// emitted by the report service.
func (s *Action) Create(ctx context.Context, moderatorID uint, reportID uint, actionType models.ActionType, targetID uint, reason *string) (*models.ReportAction, error) {
	if _, err := models.ParseActionType(string(actionType)); err != nil {
		return nil, errors.Join(ErrInvalidActionType, err)
	}
	if actionType == models.ActionUserUnsuspension || actionType == models.ActionUserWarningLifting {
		return nil, ErrActionNotAllowed
	}
	if actionType.Category() == models.ActionCategoryReport {
		return nil, ErrActionNotAllowed
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, errors.Join(ErrReportNotFound, err)
	}
	if targetID == 0 {
		return nil, ErrMissingActionTarget
	}
	if string(actionType.Category()) != string(report.ObjectType) || targetID != report.ObjectID() {
		return nil, ErrActionTargetMismatch
	}

	action := &models.ReportAction{
		ReportID:    report.ID,
		ModeratorID: &moderatorID,
		ActionType:  actionType,
		Reason:      reason,
	}

	var recipient *models.User
	switch actionType.Category() {
	case models.ActionCategoryUser:
		recipient, err = s.applyUserAction(ctx, report, actionType, targetID)
		if err != nil {
			return nil, err
		}
		action.UserID = &targetID
	case models.ActionCategoryWorkout:
		recipient, err = s.applyWorkoutAction(ctx, actionType, targetID)
		if err != nil {
			return nil, err
		}
		action.WorkoutID = &targetID
	case models.ActionCategoryComment:
		recipient, err = s.applyCommentAction(ctx, actionType, targetID)
		if err != nil {
			return nil, err
		}
		action.CommentID = &targetID
	}

	if err := s.reports.CreateAction(ctx, action); err != nil {
		return nil, err
	}
	if actionType == models.ActionWorkoutUnsuspension || actionType == models.ActionCommentUnsuspension {
		s.touchPendingAppeal(ctx, report.ID, actionType, targetID)
	}
	s.notifySanctioned(ctx, recipient, actionType, action)
	return action, nil
}

func (s *Action) applyUserAction(ctx context.Context, report *models.Report, actionType models.ActionType, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}

	switch actionType {
	case models.ActionUserSuspension:
		if user.Suspended() {
			return nil, ErrAlreadySuspended
		}
		now := time.Now().UTC()
		user.SuspendedAt = &now
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	case models.ActionUserWarning:
		// Warnings skip suspension-state checks but are deduplicated
		// per report and user.
		exists, err := s.reports.HasUserAction(ctx, report.ID, userID, models.ActionUserWarning)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserWarningExists
		}
	}
	return user, nil
}

func (s *Action) applyWorkoutAction(ctx context.Context, actionType models.ActionType, workoutID uint) (*models.User, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, errors.Join(ErrWorkoutNotFound, err)
	}

	switch actionType {
	case models.ActionWorkoutSuspension:
		if workout.Suspended() {
			return nil, ErrAlreadySuspended
		}
		now := time.Now().UTC()
		workout.SuspendedAt = &now
	case models.ActionWorkoutUnsuspension:
		if !workout.Suspended() {
			return nil, ErrAlreadyReactivated
		}
		workout.SuspendedAt = nil
	}
	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, workout.UserID)
	if err != nil {
		return nil, nil
	}
	return owner, nil
}

func (s *Action) applyCommentAction(ctx context.Context, actionType models.ActionType, commentID uint) (*models.User, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, errors.Join(ErrCommentNotFound, err)
	}

	switch actionType {
	case models.ActionCommentSuspension:
		if comment.Suspended() {
			return nil, ErrAlreadySuspended
		}
		now := time.Now().UTC()
		comment.SuspendedAt = &now
	case models.ActionCommentUnsuspension:
		if !comment.Suspended() {
			return nil, ErrAlreadyReactivated
		}
		comment.SuspendedAt = nil
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, comment.UserID)
	if err != nil {
		return nil, nil
	}
	return owner, nil
}

// touchPendingAppeal bumps the updated_at of a pending appeal whose
// sanction was reversed through a direct unsuspension instead of appeal
// processing. The verdict stays untouched.
func (s *Action) touchPendingAppeal(ctx context.Context, reportID uint, actionType models.ActionType, targetID uint) {
	suspensionType := models.ActionWorkoutSuspension
	if actionType == models.ActionCommentUnsuspension {
		suspensionType = models.ActionCommentSuspension
	}

	actions, err := s.reports.ListActions(ctx, reportID)
	if err != nil {
		return
	}
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		if a.ActionType != suspensionType {
			continue
		}
		if suspensionType == models.ActionWorkoutSuspension && (a.WorkoutID == nil || *a.WorkoutID != targetID) {
			continue
		}
		if suspensionType == models.ActionCommentSuspension && (a.CommentID == nil || *a.CommentID != targetID) {
			continue
		}
		appeal, err := s.appeals.GetByActionID(ctx, a.ID)
		if err != nil || !appeal.Pending() {
			return
		}
		_ = s.appeals.Touch(ctx, appeal.ID)
		return
	}
}

var actionEmailTemplates = map[models.ActionType]string{
	models.ActionUserSuspension:      EmailTemplateSuspension,
	models.ActionWorkoutSuspension:   EmailTemplateSuspension,
	models.ActionCommentSuspension:   EmailTemplateSuspension,
	models.ActionWorkoutUnsuspension: EmailTemplateUnsuspension,
	models.ActionCommentUnsuspension: EmailTemplateUnsuspension,
	models.ActionUserWarning:         EmailTemplateWarning,
}

func (s *Action) notifySanctioned(ctx context.Context, recipient *models.User, actionType models.ActionType, action *models.ReportAction) {
	if recipient == nil {
		return
	}

	eventType := models.NotificationSuspension
	switch actionType {
	case models.ActionWorkoutUnsuspension, models.ActionCommentUnsuspension:
		eventType = models.NotificationUnsuspension
	}
	s.notifications.Notify(ctx, recipient.ID, eventType, "report_action", action.ID)

	if template, ok := actionEmailTemplates[actionType]; ok {
		s.emails.Send(ctx, EmailMessage{
			Template: template,
			To:       recipient.Email,
			Data: map[string]interface{}{
				"username":    recipient.Username,
				"action_type": string(actionType),
			},
		})
	}
}
