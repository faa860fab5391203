package services

import (
	"context"
	"errors"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
)

// Appeal handles contestations of report actions: creation by the
// sanctioned user and one-shot processing by a moderator.
type Appeal struct {
	appeals       *repos.AppealRepository
	reports       *repos.ReportRepository
	users         *repos.UserRepository
	workouts      *repos.WorkoutRepository
	comments      *repos.CommentRepository
	notifications *Notification
	emails        *Email
}

// NewAppealService creates a new instance of the appeal service
func NewAppealService(
	appeals *repos.AppealRepository,
	reports *repos.ReportRepository,
	users *repos.UserRepository,
	workouts *repos.WorkoutRepository,
	comments *repos.CommentRepository,
	notifications *Notification,
	emails *Email,
) *Appeal {
	return &Appeal{
		appeals:       appeals,
		reports:       reports,
		users:         users,
		workouts:      workouts,
		comments:      comments,
		notifications: notifications,
		emails:        emails,
	}
}

// sanctionedUserID resolves the user sanctioned by an action
func (s *Appeal) sanctionedUserID(ctx context.Context, action *models.ReportAction) (uint, error) {
	switch action.ActionType.Category() {
	case models.ActionCategoryUser:
		if action.UserID == nil {
			return 0, ErrActionNotFound
		}
		return *action.UserID, nil
	case models.ActionCategoryWorkout:
		workout, err := s.workouts.GetByID(ctx, *action.WorkoutID)
		if err != nil {
			return 0, errors.Join(ErrWorkoutNotFound, err)
		}
		return workout.UserID, nil
	case models.ActionCategoryComment:
		comment, err := s.comments.GetByID(ctx, *action.CommentID)
		if err != nil {
			return 0, errors.Join(ErrCommentNotFound, err)
		}
		return comment.UserID, nil
	default:
		return 0, ErrNotAppealable
	}
}

// Create files an appeal against a sanction. Only the sanctioned user may
// appeal, only sanction action types can be contested, and an action can
// be appealed at most once.
func (s *Appeal) Create(ctx context.Context, userID uint, actionID uint, text string) (*models.Appeal, error) {
	action, err := s.reports.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, errors.Join(ErrActionNotFound, err)
	}
	if !action.ActionType.Sanction() {
		return nil, ErrNotAppealable
	}

	sanctionedID, err := s.sanctionedUserID(ctx, action)
	if err != nil {
		return nil, err
	}
	if sanctionedID != userID {
		return nil, ErrNotSanctionedUser
	}

	if _, err := s.appeals.GetByActionID(ctx, actionID); err == nil {
		return nil, ErrAppealExists
	}

	appeal := &models.Appeal{
		ActionID: actionID,
		UserID:   userID,
		Text:     text,
	}
	if err := s.appeals.Create(ctx, appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

// Get retrieves an appeal by ID
func (s *Appeal) Get(ctx context.Context, appealID uint) (*models.Appeal, error) {
	appeal, err := s.appeals.GetByID(ctx, appealID)
	if err != nil {
		return nil, errors.Join(ErrAppealNotFound, err)
	}
	return appeal, nil
}

// Process resolves a pending appeal exactly once. Approval reverses the
// sanction and records a reactivation action with no reason; rejection
// leaves the sanction in place and records the moderator's reason. If the
// sanction was already reversed through another path, the error message
// differs between the approval and rejection paths.
func (s *Appeal) Process(ctx context.Context, moderatorID uint, appealID uint, approved bool, reason string) (*models.Appeal, error) {
	appeal, err := s.Get(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if !appeal.Pending() {
		return nil, ErrAppealProcessed
	}

	action, err := s.reports.GetActionByID(ctx, appeal.ActionID)
	if err != nil {
		return nil, errors.Join(ErrActionNotFound, err)
	}

	reactivation, err := s.checkAndReverse(ctx, action, approved)
	if err != nil {
		return nil, err
	}

	appeal.ModeratorID = &moderatorID
	appeal.Approved = &approved
	if reason != "" {
		appeal.Reason = &reason
	}
	if err := s.appeals.Update(ctx, appeal); err != nil {
		return nil, err
	}

	if approved && reactivation != nil {
		reactivation.ModeratorID = &moderatorID
		if err := s.reports.CreateAction(ctx, reactivation); err != nil {
			return nil, err
		}
	}

	s.notifyAppealOutcome(ctx, appeal, action, approved)
	return appeal, nil
}

// checkAndReverse validates the sanction is still in force and, on
// approval, reverses it and returns the reactivation action to persist.
// The reactivation action carries no reason.
func (s *Appeal) checkAndReverse(ctx context.Context, action *models.ReportAction, approved bool) (*models.ReportAction, error) {
	reactivation := &models.ReportAction{
		ReportID: action.ReportID,
	}

	switch action.ActionType {
	case models.ActionUserSuspension:
		user, err := s.users.GetByID(ctx, *action.UserID)
		if err != nil {
			return nil, errors.Join(ErrUserNotFound, err)
		}
		if !user.Suspended() {
			if approved {
				return nil, ErrUserAlreadyReactivated
			}
			return nil, ErrUserReactivatedAfterAppeal
		}
		if !approved {
			return nil, nil
		}
		user.SuspendedAt = nil
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		reactivation.ActionType = models.ActionUserUnsuspension
		reactivation.UserID = action.UserID

	case models.ActionUserWarning:
		lifted, err := s.reports.HasUserAction(ctx, action.ReportID, *action.UserID, models.ActionUserWarningLifting)
		if err != nil {
			return nil, err
		}
		if lifted {
			if approved {
				return nil, ErrUserAlreadyReactivated
			}
			return nil, ErrUserReactivatedAfterAppeal
		}
		if !approved {
			return nil, nil
		}
		reactivation.ActionType = models.ActionUserWarningLifting
		reactivation.UserID = action.UserID

	case models.ActionWorkoutSuspension:
		workout, err := s.workouts.GetByID(ctx, *action.WorkoutID)
		if err != nil {
			return nil, errors.Join(ErrWorkoutNotFound, err)
		}
		if !workout.Suspended() {
			return nil, ErrAlreadyReactivated
		}
		if !approved {
			return nil, nil
		}
		workout.SuspendedAt = nil
		if err := s.workouts.Update(ctx, workout); err != nil {
			return nil, err
		}
		reactivation.ActionType = models.ActionWorkoutUnsuspension
		reactivation.WorkoutID = action.WorkoutID

	case models.ActionCommentSuspension:
		comment, err := s.comments.GetByID(ctx, *action.CommentID)
		if err != nil {
			return nil, errors.Join(ErrCommentNotFound, err)
		}
		if !comment.Suspended() {
			return nil, ErrAlreadyReactivated
		}
		if !approved {
			return nil, nil
		}
		comment.SuspendedAt = nil
		if err := s.comments.Update(ctx, comment); err != nil {
			return nil, err
		}
		reactivation.ActionType = models.ActionCommentUnsuspension
		reactivation.CommentID = action.CommentID

	default:
		return nil, ErrNotAppealable
	}

	return reactivation, nil
}

func (s *Appeal) notifyAppealOutcome(ctx context.Context, appeal *models.Appeal, action *models.ReportAction, approved bool) {
	user, err := s.users.GetByID(ctx, appeal.UserID)
	if err != nil {
		return
	}

	s.notifications.Notify(ctx, user.ID, models.NotificationAppealProcessed, "appeal", appeal.ID)

	template := EmailTemplateAppealRejected
	if approved {
		template = EmailTemplateUnsuspension
		if action.ActionType == models.ActionUserWarning {
			template = EmailTemplateWarningLifting
		}
	}
	s.emails.Send(ctx, EmailMessage{
		Template: template,
		To:       user.Email,
		Data: map[string]interface{}{
			"username": user.Username,
		},
	})
}
