package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

type UserRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func (s *UserRepositoryTestSuite) TestCreateAndGetUser() {
	user := s.createTestUser("alice", models.UserRoleUser)

	retrievedUser, err := s.userRepo.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Equal("alice", retrievedUser.Username)
	s.Require().False(retrievedUser.Suspended())

	retrievedUser, err = s.userRepo.GetByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Equal(user.ID, retrievedUser.ID)

	_, err = s.userRepo.GetByUsername(s.ctx, "nobody")
	s.Require().Error(err)
	s.Require().True(IsNotFound(err))
}

func (s *UserRepositoryTestSuite) TestDeleteModeratorKeepsActions() {
	reporter := s.createTestUser("reporter", models.UserRoleUser)
	reported := s.createTestUser("reported", models.UserRoleUser)
	moderator := s.createTestUser("moderator", models.UserRoleModerator)
	report := s.createTestReport(reporter.ID, reported.ID)

	action := &models.ReportAction{
		ReportID:    report.ID,
		ModeratorID: &moderator.ID,
		ActionType:  models.ActionUserSuspension,
		UserID:      &reported.ID,
	}
	s.Require().NoError(s.reportRepo.CreateAction(s.ctx, action))

	// Deleting the moderator keeps the audit row with a null moderator
	s.Require().NoError(s.userRepo.Delete(s.ctx, moderator.ID))

	keptAction, err := s.reportRepo.GetActionByID(s.ctx, action.ID)
	s.Require().NoError(err)
	s.Require().Nil(keptAction.ModeratorID)
	s.Require().Equal(reported.ID, *keptAction.UserID)
}

func (s *UserRepositoryTestSuite) TestDeleteSanctionedUserRemovesActions() {
	reporter := s.createTestUser("reporter", models.UserRoleUser)
	reported := s.createTestUser("reported", models.UserRoleUser)
	moderator := s.createTestUser("moderator", models.UserRoleModerator)
	report := s.createTestReport(reporter.ID, reported.ID)

	action := &models.ReportAction{
		ReportID:    report.ID,
		ModeratorID: &moderator.ID,
		ActionType:  models.ActionUserWarning,
		UserID:      &reported.ID,
	}
	s.Require().NoError(s.reportRepo.CreateAction(s.ctx, action))

	// Deleting the sanctioned user removes their actions with them
	s.Require().NoError(s.userRepo.Delete(s.ctx, reported.ID))

	_, err := s.reportRepo.GetActionByID(s.ctx, action.ID)
	s.Require().Error(err)
	s.Require().True(IsNotFound(err))
}

func (s *UserRepositoryTestSuite) TestDeleteReporterKeepsReports() {
	reporter := s.createTestUser("reporter", models.UserRoleUser)
	reported := s.createTestUser("reported", models.UserRoleUser)
	report := s.createTestReport(reporter.ID, reported.ID)

	s.Require().NoError(s.userRepo.Delete(s.ctx, reporter.ID))

	keptReport, err := s.reportRepo.GetByID(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Require().Nil(keptReport.ReportedByID)
}

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
