package services

import (
	"context"
	"errors"
	"os"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
	"github.com/fittrackd/fittrackd/internal/logger"
	"github.com/fittrackd/fittrackd/internal/queue"
)

// Task handles task-record operations: creation with enqueueing, owner
// reads, abort and terminal-only deletion.
type Task struct {
	repo  *repos.TaskRepository
	queue *queue.Queue
}

// NewTaskService creates a new instance of the task service
func NewTaskService(repo *repos.TaskRepository, q *queue.Queue) *Task {
	return &Task{
		repo:  repo,
		queue: q,
	}
}

// Create persists a queued task record and enqueues the corresponding
// job, storing the queue correlation id on the row for later aborts.
func (s *Task) Create(ctx context.Context, userID uint, kind models.TaskKind, filePath string, fileSize int64) (*models.Task, error) {
	task := &models.Task{
		UserID:   userID,
		Kind:     kind,
		FilePath: filePath,
		FileSize: fileSize,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	messageID, err := s.queue.Enqueue(task.ID)
	if err != nil {
		// Roll the row back: the poll loop would pick up a task that has
		// no correlation id and can never be aborted through the queue.
		if delErr := s.repo.Delete(ctx, task.ID); delErr != nil {
			logger.Errorf("Failed to delete task %d after enqueue failure: %v", task.ID, delErr)
		}
		return nil, err
	}
	task.MessageID = &messageID
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get retrieves a task scoped to its owner
func (s *Task) Get(ctx context.Context, userID uint, taskID uint) (*models.Task, error) {
	task, err := s.repo.GetByUser(ctx, userID, taskID)
	if err != nil {
		return nil, errors.Join(ErrTaskNotFound, err)
	}
	return task, nil
}

// GetByID retrieves a task without owner scoping. Reserved for admin
// tooling; the API layer always goes through Get.
func (s *Task) GetByID(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, errors.Join(ErrTaskNotFound, err)
	}
	return task, nil
}

// List retrieves the owner's tasks of a kind, newest first, with page
// metadata.
func (s *Task) List(ctx context.Context, userID uint, kind models.TaskKind, page int) ([]models.Task, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	opts := &models.ListOptions{
		Limit:  models.DefaultLimit,
		Offset: (page - 1) * models.DefaultLimit,
	}
	tasks, total, err := s.repo.ListByUser(ctx, userID, kind, opts)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return tasks, models.NewPagination(total, page, opts.Limit), nil
}

// ListQueued retrieves queued tasks for the admin endpoint
func (s *Task) ListQueued(ctx context.Context, limit int) ([]models.Task, error) {
	return s.repo.ListQueued(ctx, limit)
}

// Abort requests cancellation of a queued or in-progress task. The stored
// correlation id is signaled on the queue's abort channel and the aborted
// flag is persisted so the worker stops at its next checkpoint.
func (s *Task) Abort(ctx context.Context, userID uint, taskID uint) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	status := task.Status()
	if status != models.TaskStatusQueued && status != models.TaskStatusInProgress {
		return nil, ErrTaskNotAbortable
	}
	if task.MessageID == nil {
		return nil, ErrMissingMessageID
	}

	s.queue.SignalAbort(*task.MessageID)
	if err := s.repo.SetAborted(ctx, task.ID); err != nil {
		return nil, err
	}
	task.Aborted = true
	return task, nil
}

// Delete removes a terminal task and its associated files
func (s *Task) Delete(ctx context.Context, userID uint, taskID uint) error {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if !task.Status().Terminal() {
		return ErrTaskNotDeletable
	}

	if task.FilePath != "" {
		if err := os.Remove(task.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove file for task %d: %v", task.ID, err)
		}
	}
	if task.MessageID != nil {
		s.queue.Release(*task.MessageID)
	}
	return s.repo.Delete(ctx, task.ID)
}
