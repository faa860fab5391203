package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// ReportRepository handles database operations for reports, report
// comments and report actions.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

// Create creates a new report in the database
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID retrieves a report by ID from the database
func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportFilters narrows report listings
type ReportFilters struct {
	ObjectType models.ReportedObjectType
	Resolved   *bool
	ReporterID uint
}

// List retrieves reports ordered by creation date descending with
// pagination, returning the total row count for page metadata.
func (r *ReportRepository) List(ctx context.Context, filters ReportFilters, opts *models.ListOptions) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filters.ObjectType != "" {
		query = query.Where("object_type = ?", filters.ObjectType)
	}
	if filters.Resolved != nil {
		query = query.Where("resolved = ?", *filters.Resolved)
	}
	if filters.ReporterID != 0 {
		query = query.Where("reported_by_id = ?", filters.ReporterID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("created_at DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&reports).Error
	return reports, total, err
}

// HasUnresolved reports whether the reporter already has an unresolved
// report for the same object. Resolved reports do not count, so a new
// report can follow a resolved one.
func (r *ReportRepository) HasUnresolved(ctx context.Context, reporterID uint, objectType models.ReportedObjectType, objectID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("reported_by_id = ? AND object_type = ? AND resolved = ?", reporterID, objectType, false)
	switch objectType {
	case models.ReportedObjectUser:
		query = query.Where("reported_user_id = ?", objectID)
	case models.ReportedObjectWorkout:
		query = query.Where("reported_workout_id = ?", objectID)
	case models.ReportedObjectComment:
		query = query.Where("reported_comment_id = ?", objectID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates an existing report in the database
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// CreateComment attaches a moderator comment to a report
func (r *ReportRepository) CreateComment(ctx context.Context, comment *models.ReportComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments retrieves the comments of a report in creation order
func (r *ReportRepository) ListComments(ctx context.Context, reportID uint) ([]models.ReportComment, error) {
	var comments []models.ReportComment
	err := r.db.WithContext(ctx).
		Where(models.ReportComment{ReportID: reportID}).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CreateAction appends a report action to the audit trail
func (r *ReportRepository) CreateAction(ctx context.Context, action *models.ReportAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// GetActionByID retrieves a report action by ID from the database
func (r *ReportRepository) GetActionByID(ctx context.Context, id uint) (*models.ReportAction, error) {
	var action models.ReportAction
	if err := r.db.WithContext(ctx).First(&action, id).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

// ListActions retrieves the audit trail of a report in creation order
func (r *ReportRepository) ListActions(ctx context.Context, reportID uint) ([]models.ReportAction, error) {
	var actions []models.ReportAction
	err := r.db.WithContext(ctx).
		Where(models.ReportAction{ReportID: reportID}).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

// HasUserAction reports whether an action of the given type already
// exists for the same report and user. Used for warning deduplication and
// for checking whether a warning has been lifted.
func (r *ReportRepository) HasUserAction(ctx context.Context, reportID uint, userID uint, actionType models.ActionType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReportAction{}).
		Where("report_id = ? AND user_id = ? AND action_type = ?",
			reportID, userID, actionType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsNotFound reports whether the error is a gorm record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
