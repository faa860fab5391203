package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// CommentRepository handles database operations for workout comments
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{
		db: db,
	}
}

// Create creates a new comment in the database
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetByID retrieves a comment by ID from the database
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByUser retrieves all comments written by a user
func (r *CommentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where(models.Comment{UserID: userID}).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Update updates an existing comment in the database
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}
