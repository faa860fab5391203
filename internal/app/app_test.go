package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fittrackd/fittrackd/internal/api/middleware"
	"github.com/fittrackd/fittrackd/internal/db"
	"github.com/fittrackd/fittrackd/internal/db/models"
)

type AppTestSuite struct {
	suite.Suite
	app       *App
	user      *models.User
	moderator *models.User
}

func (s *AppTestSuite) SetupTest() {
	database, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err, "Failed to create in-memory database")
	s.Require().NoError(db.Migrate(database))

	s.app = NewWithDB(database, Options{ExportDir: s.T().TempDir()})

	s.user = &models.User{Username: "runner", Email: "runner@example.com", Role: models.UserRoleUser}
	s.Require().NoError(database.Create(s.user).Error)
	s.moderator = &models.User{Username: "mod", Email: "mod@example.com", Role: models.UserRoleModerator}
	s.Require().NoError(database.Create(s.moderator).Error)
}

func (s *AppTestSuite) TearDownTest() {
	sqlDB, err := s.app.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// request performs an HTTP request against the fiber app as the given user
func (s *AppTestSuite) request(method, path string, asUser *models.User, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asUser != nil {
		req.Header.Set(middleware.UserIDHeader, fmt.Sprintf("%d", asUser.ID))
	}

	resp, err := s.app.Fiber.Test(req, -1)
	s.Require().NoError(err)

	var payload map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func (s *AppTestSuite) data(payload map[string]interface{}) map[string]interface{} {
	data, ok := payload["data"].(map[string]interface{})
	s.Require().True(ok, "expected a data object in the response")
	return data
}

func (s *AppTestSuite) TestHealth() {
	resp, payload := s.request(http.MethodGet, "/health", nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal("healthy", payload["status"])
}

func (s *AppTestSuite) TestAuthenticationRequired() {
	resp, payload := s.request(http.MethodGet, "/api/tasks/", nil, nil)
	s.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Require().Equal("fail", payload["status"])
	s.Require().Equal("authentication required", payload["message"])
}

func (s *AppTestSuite) TestModerationRightsRequired() {
	resp, payload := s.request(http.MethodGet, "/api/reports/", s.user, nil)
	s.Require().Equal(http.StatusForbidden, resp.StatusCode)
	s.Require().Equal("you do not have permissions", payload["message"])

	resp, _ = s.request(http.MethodGet, "/api/tasks/queued", s.moderator, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

func (s *AppTestSuite) TestUploadTaskLifecycle() {
	resp, payload := s.request(http.MethodPost, "/api/workouts/upload-tasks/", s.user, map[string]interface{}{
		"file_path": "/tmp/archive.zip",
		"file_size": 2048,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	task := s.data(payload)
	s.Require().Equal("queued", task["status"])
	taskID := uint(task["ID"].(float64))

	// The owner can read it back
	resp, payload = s.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), s.user, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal("queued", s.data(payload)["status"])

	// Another user can not
	resp, payload = s.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), s.moderator, nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
	s.Require().Equal("not found", payload["status"])
	s.Require().Equal("task not found", payload["message"])

	// Queued tasks can not be deleted
	resp, payload = s.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), s.user, nil)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal("queued or ongoing workout upload task can not be deleted", payload["message"])

	// Aborting a queued task succeeds
	resp, payload = s.request(http.MethodPost, fmt.Sprintf("/api/workouts/upload-tasks/%d/abort", taskID), s.user, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal("aborted", s.data(payload)["status"])

	// Aborting again fails: the task is terminal now
	resp, payload = s.request(http.MethodPost, fmt.Sprintf("/api/workouts/upload-tasks/%d/abort", taskID), s.user, nil)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal("only queued and ongoing tasks can be aborted", payload["message"])

	// Terminal tasks can be deleted
	resp, _ = s.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), s.user, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *AppTestSuite) TestExportRequest() {
	resp, payload := s.request(http.MethodPost, "/api/users/export-request", s.user, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Require().Equal("export", s.data(payload)["kind"])
}

func (s *AppTestSuite) TestListTasksPagination() {
	for i := 0; i < 3; i++ {
		resp, _ := s.request(http.MethodPost, "/api/users/export-request", s.user, nil)
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp, payload := s.request(http.MethodGet, "/api/tasks/?kind=export", s.user, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	data := s.data(payload)
	rows := data["rows"].([]interface{})
	s.Require().Len(rows, 3)
	pagination := data["pagination"].(map[string]interface{})
	s.Require().Equal(float64(3), pagination["total"])
	s.Require().Equal(float64(1), pagination["pages"])
}

func (s *AppTestSuite) TestReportWorkflow() {
	reported := &models.User{Username: "reported", Email: "reported@example.com"}
	s.Require().NoError(s.app.DB.Create(reported).Error)

	// File a report
	resp, payload := s.request(http.MethodPost, "/api/reports/", s.user, map[string]interface{}{
		"object_type": "user",
		"object_id":   reported.ID,
		"note":        "spam",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	reportID := uint(s.data(payload)["ID"].(float64))

	// Duplicate unresolved report is rejected
	resp, payload = s.request(http.MethodPost, "/api/reports/", s.user, map[string]interface{}{
		"object_type": "user",
		"object_id":   reported.ID,
	})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal("a report already exists for this object", payload["message"])

	// Moderator suspends the reported user
	resp, _ = s.request(http.MethodPost, fmt.Sprintf("/api/reports/%d/actions", reportID), s.moderator, map[string]interface{}{
		"action_type": "user_suspension",
		"target_id":   reported.ID,
		"reason":      "repeated spam",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// Moderator resolves the report with a comment
	resolved := true
	resp, payload = s.request(http.MethodPatch, fmt.Sprintf("/api/reports/%d", reportID), s.moderator, map[string]interface{}{
		"resolved": resolved,
		"comment":  "handled",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal(true, s.data(payload)["resolved"])

	// The detail view carries the audit trail and the comment
	resp, payload = s.request(http.MethodGet, fmt.Sprintf("/api/reports/%d", reportID), s.moderator, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	detail := s.data(payload)
	s.Require().Len(detail["actions"].([]interface{}), 2)
	s.Require().Len(detail["comments"].([]interface{}), 1)
}

func (s *AppTestSuite) TestAppealWorkflow() {
	reported := &models.User{Username: "reported", Email: "reported@example.com"}
	s.Require().NoError(s.app.DB.Create(reported).Error)

	_, payload := s.request(http.MethodPost, "/api/reports/", s.user, map[string]interface{}{
		"object_type": "user",
		"object_id":   reported.ID,
	})
	reportID := uint(s.data(payload)["ID"].(float64))

	_, payload = s.request(http.MethodPost, fmt.Sprintf("/api/reports/%d/actions", reportID), s.moderator, map[string]interface{}{
		"action_type": "user_suspension",
		"target_id":   reported.ID,
	})
	actionID := uint(s.data(payload)["ID"].(float64))

	// Only the sanctioned user can appeal
	resp, respPayload := s.request(http.MethodPost, "/api/appeals/", s.user, map[string]interface{}{
		"action_id": actionID,
		"text":      "appealing for them",
	})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal("only the sanctioned user can appeal an action", respPayload["message"])

	resp, respPayload = s.request(http.MethodPost, "/api/appeals/", reported, map[string]interface{}{
		"action_id": actionID,
		"text":      "this is unfair",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	appealID := uint(s.data(respPayload)["ID"].(float64))

	// Rejecting without a reason is a validation failure
	approved := false
	resp, respPayload = s.request(http.MethodPatch, fmt.Sprintf("/api/appeals/%d", appealID), s.moderator, map[string]interface{}{
		"approved": approved,
	})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal("reason is required to reject an appeal", respPayload["message"])

	// Approving reverses the suspension
	resp, respPayload = s.request(http.MethodPatch, fmt.Sprintf("/api/appeals/%d", appealID), s.moderator, map[string]interface{}{
		"approved": true,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal(true, s.data(respPayload)["approved"])

	var reactivatedUser models.User
	s.Require().NoError(s.app.DB.First(&reactivatedUser, reported.ID).Error)
	s.Require().Nil(reactivatedUser.SuspendedAt)
}

func TestApp(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}
