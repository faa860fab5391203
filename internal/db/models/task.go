package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Field names for task model
const (
	// TaskProgressField is the field name for task progress
	TaskProgressField = "progress"
	// TaskAbortedField is the field name for the aborted flag
	TaskAbortedField = "aborted"
)

// TaskKind represents the kind of asynchronous work a task performs
type TaskKind string

// Task kind constants
const (
	// TaskKindExport indicates a user data export task
	TaskKindExport TaskKind = "export"
	// TaskKindArchiveImport indicates a workout archive import task
	TaskKindArchiveImport TaskKind = "archive_import"
)

// ParseTaskKind converts a string to a TaskKind type
func ParseTaskKind(str string) (TaskKind, error) {
	switch str {
	case string(TaskKindExport):
		return TaskKindExport, nil
	case string(TaskKindArchiveImport):
		return TaskKindArchiveImport, nil
	default:
		return "", fmt.Errorf("invalid task kind: %s", str)
	}
}

// TaskStatus represents the current state of a task. It is derived from
// the progress/errored/aborted fields rather than stored as a column.
type TaskStatus string

// Task status constants
const (
	// TaskStatusQueued indicates the task is waiting to be processed
	TaskStatusQueued TaskStatus = "queued"
	// TaskStatusInProgress indicates the task is currently being processed
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusSuccessful indicates the task has been successfully completed
	TaskStatusSuccessful TaskStatus = "successful"
	// TaskStatusErrored indicates the task has failed
	TaskStatusErrored TaskStatus = "errored"
	// TaskStatusAborted indicates the task was cancelled by its owner
	TaskStatusAborted TaskStatus = "aborted"
)

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// Terminal reports whether the status is final
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccessful || s == TaskStatusErrored || s == TaskStatusAborted
}

// TaskErrors is the structured error payload of a task: one entry per
// archive member plus an overall error.
type TaskErrors struct {
	Archive string            `json:"archive,omitempty"`
	Files   map[string]string `json:"files,omitempty"`
}

// Task represents an asynchronous unit of work (data export or archive
// import) that can be tracked by its owner.
type Task struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	Kind           TaskKind       `json:"kind" gorm:"not null;index"`
	Progress       int            `json:"progress" gorm:"not null;default:0"`
	Errored        bool           `json:"errored" gorm:"not null;default:false"`
	Errors         datatypes.JSON `json:"errors,omitempty" gorm:"type:jsonb"`
	Aborted        bool           `json:"aborted" gorm:"not null;default:false;index"`
	MessageID      *uuid.UUID     `json:"-" gorm:"type:uuid"`
	FilePath       string         `json:"-" gorm:"type:text"`
	FileSize       int64          `json:"file_size"`
	FilesToProcess int            `json:"files_to_process"`
	FilesProcessed int            `json:"files_processed"`
}

// Status derives the task status from the progress/errored/aborted fields
func (t *Task) Status() TaskStatus {
	switch {
	case t.Aborted:
		return TaskStatusAborted
	case t.Errored:
		return TaskStatusErrored
	case t.Progress >= 100:
		return TaskStatusSuccessful
	case t.Progress > 0:
		return TaskStatusInProgress
	default:
		return TaskStatusQueued
	}
}

// MarshalJSON includes the derived status in the serialized task
func (t Task) MarshalJSON() ([]byte, error) {
	type Alias Task // Create an alias to avoid infinite recursion
	return json.Marshal(struct {
		Alias
		Status TaskStatus `json:"status"`
	}{
		Alias:  Alias(t),
		Status: t.Status(),
	})
}

// SetErrors marshals the structured error payload into the JSON column
func (t *Task) SetErrors(errs TaskErrors) error {
	data, err := json.Marshal(errs)
	if err != nil {
		return err
	}
	t.Errors = datatypes.JSON(data)
	return nil
}

// GetErrors unmarshals the structured error payload from the JSON column
func (t *Task) GetErrors() (TaskErrors, error) {
	var errs TaskErrors
	if len(t.Errors) == 0 {
		return errs, nil
	}
	err := json.Unmarshal(t.Errors, &errs)
	return errs, err
}

// Validate ensures that the task data is valid
func (t *Task) Validate() error {
	if t.UserID == 0 {
		return fmt.Errorf("task user_id cannot be empty")
	}
	if _, err := ParseTaskKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("task progress must be between 0 and 100")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new task
func (t *Task) BeforeCreate(_ *gorm.DB) error {
	return t.Validate()
}

// BeforeSave is a GORM hook that keeps the progress invariant on updates
func (t *Task) BeforeSave(_ *gorm.DB) error {
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("task progress must be between 0 and 100")
	}
	return nil
}
