package models

import (
	"gorm.io/gorm"
)

// NotificationType identifies the event a notification reports to a user
type NotificationType string

// Notification type constants
const (
	// NotificationWorkoutsArchiveImport is sent when an archive import finishes
	NotificationWorkoutsArchiveImport NotificationType = "workouts_archive_import"
	// NotificationDataExport is sent when a data export finishes
	NotificationDataExport NotificationType = "data_export"
	// NotificationSuspension is sent when a sanction is applied
	NotificationSuspension NotificationType = "suspension"
	// NotificationUnsuspension is sent when a sanction is lifted
	NotificationUnsuspension NotificationType = "unsuspension"
	// NotificationAppealProcessed is sent when an appeal is approved or rejected
	NotificationAppealProcessed NotificationType = "appeal_processed"
)

// Notification is an in-app message delivered to a single user
type Notification struct {
	gorm.Model
	UserID     uint             `json:"user_id" gorm:"not null;index"`
	Type       NotificationType `json:"type" gorm:"not null;index"`
	ObjectKind string           `json:"object_kind"`
	ObjectID   uint             `json:"object_id"`
	Read       bool             `json:"read" gorm:"not null;default:false;index"`
}
