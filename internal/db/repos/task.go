package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create creates a new task in the database
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by ID from the database
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByUser retrieves a task by ID scoped to its owner
func (r *TaskRepository) GetByUser(ctx context.Context, userID uint, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where(models.Task{
			Model:  gorm.Model{ID: id},
			UserID: userID,
		}).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser retrieves all tasks for a user ordered by creation date
// descending, with pagination.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint, kind models.TaskKind, opts *models.ListOptions) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Task{}).Where(models.Task{
		UserID: userID,
		Kind:   kind,
	})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("created_at DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&tasks).Error
	return tasks, total, err
}

// ListQueued retrieves up to limit queued tasks ordered by creation date
// ascending. Queued means no progress yet and neither errored nor aborted.
func (r *TaskRepository) ListQueued(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.WithContext(ctx).
		Where("progress = 0 AND errored = ? AND aborted = ?", false, false).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task in the database
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// UpdateProgress updates the progress of a task in the database
func (r *TaskRepository) UpdateProgress(ctx context.Context, id uint, progress int) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update(models.TaskProgressField, progress).Error
}

// SetAborted flips the aborted flag on a task row
func (r *TaskRepository) SetAborted(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update(models.TaskAbortedField, true).Error
}

// Delete removes a task row from the database
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}
