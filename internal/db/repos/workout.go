package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// WorkoutRepository handles database operations for workouts
type WorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new instance of WorkoutRepository
func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{
		db: db,
	}
}

// Create creates a new workout in the database
func (r *WorkoutRepository) Create(ctx context.Context, workout *models.Workout) error {
	return r.db.WithContext(ctx).Create(workout).Error
}

// GetByID retrieves a workout by ID from the database
func (r *WorkoutRepository) GetByID(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	if err := r.db.WithContext(ctx).First(&workout, id).Error; err != nil {
		return nil, err
	}
	return &workout, nil
}

// ListByUser retrieves all workouts owned by a user
func (r *WorkoutRepository) ListByUser(ctx context.Context, userID uint) ([]models.Workout, error) {
	var workouts []models.Workout
	err := r.db.WithContext(ctx).
		Where(models.Workout{UserID: userID}).
		Order("created_at ASC").
		Find(&workouts).Error
	return workouts, err
}

// Update updates an existing workout in the database
func (r *WorkoutRepository) Update(ctx context.Context, workout *models.Workout) error {
	return r.db.WithContext(ctx).Save(workout).Error
}
