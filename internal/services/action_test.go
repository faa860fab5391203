package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

type ActionServiceTestSuite struct {
	ServiceTestSuite
}

func (s *ActionServiceTestSuite) TestUserSuspension() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	reported := s.createUser("reported", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	report := s.createUserReport(reporter.ID, reported.ID)

	reason := "repeated spam"
	action, err := s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserSuspension, reported.ID, &reason)
	s.Require().NoError(err)
	s.Require().Equal(models.ActionUserSuspension, action.ActionType)
	s.Require().Equal(reported.ID, *action.UserID)
	s.Require().Equal(moderator.ID, *action.ModeratorID)

	suspendedUser, err := s.userRepo.GetByID(s.ctx, reported.ID)
	s.Require().NoError(err)
	s.Require().True(suspendedUser.Suspended())

	// The sanctioned user is notified
	notifications := s.userNotifications(reported.ID)
	s.Require().Len(notifications, 1)
	s.Require().Equal(models.NotificationSuspension, notifications[0].Type)

	// Suspending an already suspended user is rejected
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserSuspension, reported.ID, nil)
	s.Require().ErrorIs(err, ErrAlreadySuspended)
}

func (s *ActionServiceTestSuite) TestUserWarningDeduplication() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	reported := s.createUser("reported", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	report := s.createUserReport(reporter.ID, reported.ID)

	_, err := s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserWarning, reported.ID, nil)
	s.Require().NoError(err)

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserWarning, reported.ID, nil)
	s.Require().ErrorIs(err, ErrUserWarningExists)
}

func (s *ActionServiceTestSuite) TestReactivationTypesRejected() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	reported := s.createUser("reported", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	report := s.createUserReport(reporter.ID, reported.ID)

	// Reactivation of user sanctions only happens through appeal processing
	_, err := s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserUnsuspension, reported.ID, nil)
	s.Require().ErrorIs(err, ErrActionNotAllowed)
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserWarningLifting, reported.ID, nil)
	s.Require().ErrorIs(err, ErrActionNotAllowed)

	// Resolution bookkeeping is owned by the report service
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionReportResolution, reported.ID, nil)
	s.Require().ErrorIs(err, ErrActionNotAllowed)

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, "bogus", reported.ID, nil)
	s.Require().ErrorIs(err, ErrInvalidActionType)
}

func (s *ActionServiceTestSuite) TestActionTargetValidation() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	reported := s.createUser("reported", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	report := s.createUserReport(reporter.ID, reported.ID)

	_, err := s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserSuspension, 0, nil)
	s.Require().ErrorIs(err, ErrMissingActionTarget)

	// The target must match the report's object
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionUserSuspension, reported.ID+1, nil)
	s.Require().ErrorIs(err, ErrActionTargetMismatch)

	// The action category must match the report's object type
	workout := s.createWorkout(reported.ID)
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutSuspension, workout.ID, nil)
	s.Require().ErrorIs(err, ErrActionTargetMismatch)

	_, err = s.actions.Create(s.ctx, moderator.ID, 999, models.ActionUserSuspension, reported.ID, nil)
	s.Require().ErrorIs(err, ErrReportNotFound)
}

func (s *ActionServiceTestSuite) TestWorkoutSuspensionLifecycle() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	owner := s.createUser("owner", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	workout := s.createWorkout(owner.ID)

	report, err := s.reports.Create(s.ctx, reporter.ID, models.ReportedObjectWorkout, workout.ID, "cheating")
	s.Require().NoError(err)

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutSuspension, workout.ID, nil)
	s.Require().NoError(err)
	suspendedWorkout, err := s.workoutRepo.GetByID(s.ctx, workout.ID)
	s.Require().NoError(err)
	s.Require().True(suspendedWorkout.Suspended())

	// Unsuspending a workout is a direct moderator action
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutUnsuspension, workout.ID, nil)
	s.Require().NoError(err)
	reactivatedWorkout, err := s.workoutRepo.GetByID(s.ctx, workout.ID)
	s.Require().NoError(err)
	s.Require().False(reactivatedWorkout.Suspended())

	// The owner got a suspension and an unsuspension notification
	notifications := s.userNotifications(owner.ID)
	s.Require().Len(notifications, 2)

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutUnsuspension, workout.ID, nil)
	s.Require().ErrorIs(err, ErrAlreadyReactivated)
}

func (s *ActionServiceTestSuite) TestCommentSuspensionLifecycle() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	owner := s.createUser("owner", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	workout := s.createWorkout(reporter.ID)
	comment := s.createComment(owner.ID, workout.ID)

	report, err := s.reports.Create(s.ctx, reporter.ID, models.ReportedObjectComment, comment.ID, "abusive")
	s.Require().NoError(err)

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionCommentSuspension, comment.ID, nil)
	s.Require().NoError(err)
	suspendedComment, err := s.commentRepo.GetByID(s.ctx, comment.ID)
	s.Require().NoError(err)
	s.Require().True(suspendedComment.Suspended())

	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionCommentSuspension, comment.ID, nil)
	s.Require().ErrorIs(err, ErrAlreadySuspended)
}

func (s *ActionServiceTestSuite) TestDirectUnsuspensionTouchesPendingAppeal() {
	reporter := s.createUser("reporter", models.UserRoleUser)
	owner := s.createUser("owner", models.UserRoleUser)
	moderator := s.createUser("moderator", models.UserRoleModerator)
	workout := s.createWorkout(owner.ID)

	report, err := s.reports.Create(s.ctx, reporter.ID, models.ReportedObjectWorkout, workout.ID, "cheating")
	s.Require().NoError(err)
	suspension, err := s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutSuspension, workout.ID, nil)
	s.Require().NoError(err)

	appeal, err := s.appeals.Create(s.ctx, owner.ID, suspension.ID, "it was a valid ride")
	s.Require().NoError(err)

	// The moderator reverses the sanction directly instead of processing
	// the appeal: the appeal stays pending, only its timestamp moves.
	_, err = s.actions.Create(s.ctx, moderator.ID, report.ID, models.ActionWorkoutUnsuspension, workout.ID, nil)
	s.Require().NoError(err)

	untouchedAppeal, err := s.appeals.Get(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Require().True(untouchedAppeal.Pending())
}

func TestActionService(t *testing.T) {
	suite.Run(t, new(ActionServiceTestSuite))
}
