package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Appeal is a sanctioned user's contestation of a report action. Approved
// stays nil while the appeal is pending and is set exactly once by a
// moderator.
type Appeal struct {
	gorm.Model
	ActionID    uint    `json:"action_id" gorm:"not null;uniqueIndex"`
	UserID      uint    `json:"user_id" gorm:"not null;index"`
	Text        string  `json:"text" gorm:"not null;type:text"`
	ModeratorID *uint   `json:"moderator_id"`
	Approved    *bool   `json:"approved"`
	Reason      *string `json:"reason" gorm:"type:text"`
}

// Pending reports whether the appeal has not been processed yet
func (a *Appeal) Pending() bool {
	return a.Approved == nil
}

// Validate ensures that the appeal data is valid
func (a *Appeal) Validate() error {
	if a.ActionID == 0 {
		return fmt.Errorf("appeal action_id cannot be empty")
	}
	if a.UserID == 0 {
		return fmt.Errorf("appeal user_id cannot be empty")
	}
	if a.Text == "" {
		return fmt.Errorf("appeal text cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new appeal
func (a *Appeal) BeforeCreate(_ *gorm.DB) error {
	return a.Validate()
}
