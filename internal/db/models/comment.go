package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a user comment on a workout
type Comment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	WorkoutID   uint       `json:"workout_id" gorm:"not null;index"`
	Text        string     `json:"text" gorm:"not null;type:text"`
	SuspendedAt *time.Time `json:"suspended_at" gorm:"index"`
}

// Suspended reports whether the comment is currently suspended
func (c *Comment) Suspended() bool {
	return c.SuspendedAt != nil
}
