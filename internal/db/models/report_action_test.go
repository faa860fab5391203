package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTypeCategory(t *testing.T) {
	tests := []struct {
		actionType ActionType
		category   ActionCategory
		sanction   bool
	}{
		{ActionUserSuspension, ActionCategoryUser, true},
		{ActionUserUnsuspension, ActionCategoryUser, false},
		{ActionUserWarning, ActionCategoryUser, true},
		{ActionUserWarningLifting, ActionCategoryUser, false},
		{ActionWorkoutSuspension, ActionCategoryWorkout, true},
		{ActionWorkoutUnsuspension, ActionCategoryWorkout, false},
		{ActionCommentSuspension, ActionCategoryComment, true},
		{ActionCommentUnsuspension, ActionCategoryComment, false},
		{ActionReportResolution, ActionCategoryReport, false},
		{ActionReportReopening, ActionCategoryReport, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.actionType), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.actionType.Category())
			assert.Equal(t, tt.sanction, tt.actionType.Sanction())
		})
	}
}

func TestParseActionType(t *testing.T) {
	actionType, err := ParseActionType("user_suspension")
	require.NoError(t, err)
	assert.Equal(t, ActionUserSuspension, actionType)

	_, err = ParseActionType("bogus")
	assert.Error(t, err)
}

func TestReportActionValidate(t *testing.T) {
	userID := uint(1)
	workoutID := uint(2)
	commentID := uint(3)

	tests := []struct {
		name    string
		action  ReportAction
		wantErr bool
	}{
		{
			name:   "user action with user target",
			action: ReportAction{ReportID: 1, ActionType: ActionUserWarning, UserID: &userID},
		},
		{
			name:    "user action without target",
			action:  ReportAction{ReportID: 1, ActionType: ActionUserSuspension},
			wantErr: true,
		},
		{
			name:   "workout action with workout target",
			action: ReportAction{ReportID: 1, ActionType: ActionWorkoutSuspension, WorkoutID: &workoutID},
		},
		{
			name:    "workout action with only a user target",
			action:  ReportAction{ReportID: 1, ActionType: ActionWorkoutSuspension, UserID: &userID},
			wantErr: true,
		},
		{
			name:   "comment action with comment target",
			action: ReportAction{ReportID: 1, ActionType: ActionCommentUnsuspension, CommentID: &commentID},
		},
		{
			name:   "report bookkeeping action needs no target",
			action: ReportAction{ReportID: 1, ActionType: ActionReportResolution},
		},
		{
			name:    "invalid action type",
			action:  ReportAction{ReportID: 1, ActionType: "bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReportValidate(t *testing.T) {
	userID := uint(1)
	workoutID := uint(2)

	valid := Report{ObjectType: ReportedObjectUser, ReportedUserID: &userID}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, userID, valid.ObjectID())

	// No target
	assert.Error(t, (&Report{ObjectType: ReportedObjectUser}).Validate())
	// Two targets
	assert.Error(t, (&Report{
		ObjectType:        ReportedObjectUser,
		ReportedUserID:    &userID,
		ReportedWorkoutID: &workoutID,
	}).Validate())
	// Target does not match the object type
	assert.Error(t, (&Report{
		ObjectType:        ReportedObjectUser,
		ReportedWorkoutID: &workoutID,
	}).Validate())
	// Invalid object type
	assert.Error(t, (&Report{ObjectType: "bogus", ReportedUserID: &userID}).Validate())
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		page    int
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{"empty", 0, 1, 0, false, false},
		{"single page", 5, 1, 1, false, false},
		{"first of three", 25, 1, 3, true, false},
		{"middle page", 25, 2, 3, true, true},
		{"last page", 25, 3, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, DefaultLimit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.pages, p.Pages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
		})
	}
}

func TestUserRole(t *testing.T) {
	assert.False(t, UserRoleUser.HasModerationRights())
	assert.True(t, UserRoleModerator.HasModerationRights())
	assert.True(t, UserRoleAdmin.HasModerationRights())

	role, err := ParseUserRole("moderator")
	require.NoError(t, err)
	assert.Equal(t, UserRoleModerator, role)
	_, err = ParseUserRole("bogus")
	assert.Error(t, err)
}
