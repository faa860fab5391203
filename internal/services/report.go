package services

import (
	"context"
	"errors"
	"time"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
)

// Report handles the report lifecycle: creation, resolve/reopen
// transitions and moderator comments.
type Report struct {
	reports  *repos.ReportRepository
	users    *repos.UserRepository
	workouts *repos.WorkoutRepository
	comments *repos.CommentRepository
}

// NewReportService creates a new instance of the report service
func NewReportService(
	reports *repos.ReportRepository,
	users *repos.UserRepository,
	workouts *repos.WorkoutRepository,
	comments *repos.CommentRepository,
) *Report {
	return &Report{
		reports:  reports,
		users:    users,
		workouts: workouts,
		comments: comments,
	}
}

// reportTarget resolves a reported object to its owner and suspension state
type reportTarget struct {
	ownerID   uint
	suspended bool
}

func (s *Report) resolveTarget(ctx context.Context, objectType models.ReportedObjectType, objectID uint) (*reportTarget, error) {
	switch objectType {
	case models.ReportedObjectUser:
		user, err := s.users.GetByID(ctx, objectID)
		if err != nil {
			return nil, errors.Join(ErrUserNotFound, err)
		}
		return &reportTarget{ownerID: user.ID, suspended: user.Suspended()}, nil
	case models.ReportedObjectWorkout:
		workout, err := s.workouts.GetByID(ctx, objectID)
		if err != nil {
			return nil, errors.Join(ErrWorkoutNotFound, err)
		}
		return &reportTarget{ownerID: workout.UserID, suspended: workout.Suspended()}, nil
	case models.ReportedObjectComment:
		comment, err := s.comments.GetByID(ctx, objectID)
		if err != nil {
			return nil, errors.Join(ErrCommentNotFound, err)
		}
		return &reportTarget{ownerID: comment.UserID, suspended: comment.Suspended()}, nil
	default:
		return nil, ErrInvalidActionType
	}
}

// Create files a new report. Rejected when the reporter owns the reported
// object, when the object is already suspended, or when the reporter
// already has an unresolved report for the same object.
func (s *Report) Create(ctx context.Context, reporterID uint, objectType models.ReportedObjectType, objectID uint, note string) (*models.Report, error) {
	target, err := s.resolveTarget(ctx, objectType, objectID)
	if err != nil {
		return nil, err
	}
	if target.ownerID == reporterID {
		return nil, ErrSelfReport
	}
	if target.suspended {
		return nil, ErrObjectSuspended
	}

	exists, err := s.reports.HasUnresolved(ctx, reporterID, objectType, objectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReportExists
	}

	report := &models.Report{
		ReportedByID: &reporterID,
		ObjectType:   objectType,
		Note:         note,
	}
	switch objectType {
	case models.ReportedObjectUser:
		report.ReportedUserID = &objectID
	case models.ReportedObjectWorkout:
		report.ReportedWorkoutID = &objectID
	case models.ReportedObjectComment:
		report.ReportedCommentID = &objectID
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Get retrieves a report by ID
func (s *Report) Get(ctx context.Context, reportID uint) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, errors.Join(ErrReportNotFound, err)
	}
	return report, nil
}

// List retrieves reports, newest first, with page metadata
func (s *Report) List(ctx context.Context, filters repos.ReportFilters, page int) ([]models.Report, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	opts := &models.ListOptions{
		Limit:  models.DefaultLimit,
		Offset: (page - 1) * models.DefaultLimit,
	}
	reports, total, err := s.reports.List(ctx, filters, opts)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return reports, models.NewPagination(total, page, opts.Limit), nil
}

// SetResolved resolves or reopens a report. The transition is
// idempotent-guarded: re-applying the current flag is a no-op, while an
// actual transition records who/when and emits an audit action.
func (s *Report) SetResolved(ctx context.Context, moderatorID uint, reportID uint, resolved bool) (*models.Report, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Resolved == resolved {
		return report, nil
	}

	report.Resolved = resolved
	if resolved {
		now := time.Now().UTC()
		report.ResolvedAt = &now
		report.ResolvedByID = &moderatorID
	} else {
		report.ResolvedAt = nil
		report.ResolvedByID = nil
	}
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	actionType := models.ActionReportResolution
	if !resolved {
		actionType = models.ActionReportReopening
	}
	action := &models.ReportAction{
		ReportID:    report.ID,
		ModeratorID: &moderatorID,
		ActionType:  actionType,
	}
	if err := s.reports.CreateAction(ctx, action); err != nil {
		return nil, err
	}
	return report, nil
}

// AddComment attaches a moderator comment to a report. Never changes the
// resolution state and never emits an action.
func (s *Report) AddComment(ctx context.Context, moderatorID uint, reportID uint, text string) (*models.ReportComment, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	comment := &models.ReportComment{
		ReportID: report.ID,
		UserID:   moderatorID,
		Comment:  text,
	}
	if err := s.reports.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments retrieves the comments of a report in creation order
func (s *Report) Comments(ctx context.Context, reportID uint) ([]models.ReportComment, error) {
	return s.reports.ListComments(ctx, reportID)
}

// Actions retrieves the audit trail of a report in creation order
func (s *Report) Actions(ctx context.Context, reportID uint) ([]models.ReportAction, error) {
	return s.reports.ListActions(ctx, reportID)
}
