package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReportedObjectType discriminates what a report points at
type ReportedObjectType string

// Reported object type constants
const (
	// ReportedObjectUser indicates the report targets a user account
	ReportedObjectUser ReportedObjectType = "user"
	// ReportedObjectWorkout indicates the report targets a workout
	ReportedObjectWorkout ReportedObjectType = "workout"
	// ReportedObjectComment indicates the report targets a comment
	ReportedObjectComment ReportedObjectType = "comment"
)

// ParseReportedObjectType converts a string to a ReportedObjectType
func ParseReportedObjectType(str string) (ReportedObjectType, error) {
	switch str {
	case string(ReportedObjectUser):
		return ReportedObjectUser, nil
	case string(ReportedObjectWorkout):
		return ReportedObjectWorkout, nil
	case string(ReportedObjectComment):
		return ReportedObjectComment, nil
	default:
		return "", fmt.Errorf("invalid reported object type: %s", str)
	}
}

// Report represents a moderation complaint against a user, workout or
// comment. Exactly one of the three target columns is populated, matching
// ObjectType.
type Report struct {
	gorm.Model
	ReportedByID      *uint              `json:"reported_by" gorm:"index"`
	ObjectType        ReportedObjectType `json:"object_type" gorm:"not null;index"`
	ReportedUserID    *uint              `json:"reported_user_id,omitempty" gorm:"index"`
	ReportedWorkoutID *uint              `json:"reported_workout_id,omitempty" gorm:"index"`
	ReportedCommentID *uint              `json:"reported_comment_id,omitempty" gorm:"index"`
	Note              string             `json:"note" gorm:"type:text"`
	Resolved          bool               `json:"resolved" gorm:"not null;default:false;index"`
	ResolvedAt        *time.Time         `json:"resolved_at"`
	ResolvedByID      *uint              `json:"resolved_by"`
}

// ObjectID returns the populated target id for the report's object type
func (r *Report) ObjectID() uint {
	switch r.ObjectType {
	case ReportedObjectUser:
		if r.ReportedUserID != nil {
			return *r.ReportedUserID
		}
	case ReportedObjectWorkout:
		if r.ReportedWorkoutID != nil {
			return *r.ReportedWorkoutID
		}
	case ReportedObjectComment:
		if r.ReportedCommentID != nil {
			return *r.ReportedCommentID
		}
	}
	return 0
}

// Validate ensures exactly one target column is set and matches ObjectType
func (r *Report) Validate() error {
	if _, err := ParseReportedObjectType(string(r.ObjectType)); err != nil {
		return err
	}
	set := 0
	for _, id := range []*uint{r.ReportedUserID, r.ReportedWorkoutID, r.ReportedCommentID} {
		if id != nil {
			set++
		}
	}
	if set != 1 || r.ObjectID() == 0 {
		return fmt.Errorf("report must reference exactly one object of type %s", r.ObjectType)
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new report
func (r *Report) BeforeCreate(_ *gorm.DB) error {
	return r.Validate()
}

// ReportComment represents a moderator note attached to a report. Adding
// one never changes the report's resolution state.
type ReportComment struct {
	gorm.Model
	ReportID uint   `json:"report_id" gorm:"not null;index"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	Comment  string `json:"comment" gorm:"not null;type:text"`
}
