package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		status   TaskStatus
		terminal bool
	}{
		{
			name:   "new task is queued",
			task:   Task{},
			status: TaskStatusQueued,
		},
		{
			name:   "progress means in progress",
			task:   Task{Progress: 1},
			status: TaskStatusInProgress,
		},
		{
			name:     "full progress means successful",
			task:     Task{Progress: 100},
			status:   TaskStatusSuccessful,
			terminal: true,
		},
		{
			name:     "errored wins over progress",
			task:     Task{Progress: 100, Errored: true},
			status:   TaskStatusErrored,
			terminal: true,
		},
		{
			name:     "aborted wins over everything",
			task:     Task{Progress: 100, Errored: true, Aborted: true},
			status:   TaskStatusAborted,
			terminal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.task.Status())
			assert.Equal(t, tt.terminal, tt.task.Status().Terminal())
		})
	}
}

func TestTaskMarshalIncludesStatus(t *testing.T) {
	task := Task{UserID: 1, Kind: TaskKindExport, Progress: 100}
	data, err := json.Marshal(task)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "successful", payload["status"])
	assert.Equal(t, "export", payload["kind"])
}

func TestTaskValidate(t *testing.T) {
	task := Task{UserID: 1, Kind: TaskKindArchiveImport}
	assert.NoError(t, task.Validate())

	assert.Error(t, (&Task{Kind: TaskKindExport}).Validate())
	assert.Error(t, (&Task{UserID: 1, Kind: "bogus"}).Validate())
	assert.Error(t, (&Task{UserID: 1, Kind: TaskKindExport, Progress: 101}).Validate())
	assert.Error(t, (&Task{UserID: 1, Kind: TaskKindExport, Progress: -1}).Validate())
}

func TestParseTaskKind(t *testing.T) {
	kind, err := ParseTaskKind("export")
	require.NoError(t, err)
	assert.Equal(t, TaskKindExport, kind)

	kind, err = ParseTaskKind("archive_import")
	require.NoError(t, err)
	assert.Equal(t, TaskKindArchiveImport, kind)

	_, err = ParseTaskKind("unknown")
	assert.Error(t, err)
}

func TestTaskErrorsRoundTrip(t *testing.T) {
	task := Task{UserID: 1, Kind: TaskKindArchiveImport}
	require.NoError(t, task.SetErrors(TaskErrors{
		Archive: "unable to open archive",
		Files:   map[string]string{"a.json": "invalid"},
	}))

	errs, err := task.GetErrors()
	require.NoError(t, err)
	assert.Equal(t, "unable to open archive", errs.Archive)
	assert.Equal(t, "invalid", errs.Files["a.json"])

	// A task without errors yields an empty payload
	empty := Task{}
	errs, err = empty.GetErrors()
	require.NoError(t, err)
	assert.Empty(t, errs.Archive)
	assert.Empty(t, errs.Files)
}
