package models

import (
	"time"

	"gorm.io/gorm"
)

// Workout represents a single recorded activity owned by a user.
// Track points and derived statistics live with the upload collaborators;
// only the fields moderation and import/export need are kept here.
type Workout struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Distance    float64    `json:"distance"`
	Duration    int64      `json:"duration"`
	SuspendedAt *time.Time `json:"suspended_at" gorm:"index"`
}

// Suspended reports whether the workout is currently suspended
func (w *Workout) Suspended() bool {
	return w.SuspendedAt != nil
}
