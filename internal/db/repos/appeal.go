package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// AppealRepository handles database operations for appeals
type AppealRepository struct {
	db *gorm.DB
}

// NewAppealRepository creates a new instance of AppealRepository
func NewAppealRepository(db *gorm.DB) *AppealRepository {
	return &AppealRepository{
		db: db,
	}
}

// Create creates a new appeal in the database
func (r *AppealRepository) Create(ctx context.Context, appeal *models.Appeal) error {
	return r.db.WithContext(ctx).Create(appeal).Error
}

// GetByID retrieves an appeal by ID from the database
func (r *AppealRepository) GetByID(ctx context.Context, id uint) (*models.Appeal, error) {
	var appeal models.Appeal
	if err := r.db.WithContext(ctx).First(&appeal, id).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

// GetByActionID retrieves the appeal tied to a report action, if any
func (r *AppealRepository) GetByActionID(ctx context.Context, actionID uint) (*models.Appeal, error) {
	var appeal models.Appeal
	if err := r.db.WithContext(ctx).
		Where(models.Appeal{ActionID: actionID}).First(&appeal).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

// Update updates an existing appeal in the database
func (r *AppealRepository) Update(ctx context.Context, appeal *models.Appeal) error {
	return r.db.WithContext(ctx).Save(appeal).Error
}

// Touch bumps the updated_at timestamp of an appeal without changing its
// verdict. Used when the underlying sanction is reversed through another
// path while the appeal is still pending.
func (r *AppealRepository) Touch(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Appeal{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
