package services

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
	"github.com/fittrackd/fittrackd/internal/logger"
	"github.com/fittrackd/fittrackd/internal/queue"
)

const (
	// DefaultMaxCount is the max number of queued tasks drained per batch
	// driver invocation.
	DefaultMaxCount = 10
	// pollInterval is the fallback interval for picking up tasks that
	// were queued before a worker restart.
	pollInterval = 5 * time.Second
)

// Worker consumes queued tasks and drives them to a terminal state:
// successful, errored or aborted. Only the worker updates a task row once
// processing starts; the API layer merely reads it or toggles the abort
// flag.
type Worker struct {
	tasks         *repos.TaskRepository
	workouts      *repos.WorkoutRepository
	comments      *repos.CommentRepository
	users         *repos.UserRepository
	notifications *Notification
	emails        *Email
	queue         *queue.Queue
	exportDir     string
}

// NewWorker creates a new worker instance
func NewWorker(
	tasks *repos.TaskRepository,
	workouts *repos.WorkoutRepository,
	comments *repos.CommentRepository,
	users *repos.UserRepository,
	notifications *Notification,
	emails *Email,
	q *queue.Queue,
	exportDir string,
) *Worker {
	return &Worker{
		tasks:         tasks,
		workouts:      workouts,
		comments:      comments,
		users:         users,
		notifications: notifications,
		emails:        emails,
		queue:         q,
		exportDir:     exportDir,
	}
}

// Run consumes jobs until the context is cancelled. A periodic fallback
// drains tasks that were queued before a restart and therefore never
// reached the in-process channel.
func (w *Worker) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger.Info("Worker started")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker received shutdown signal, stopping...")
			return
		case job := <-w.queue.Jobs():
			if err := w.Process(ctx, job.TaskID); err != nil {
				logger.Errorf("Worker failed to process task %d: %v", job.TaskID, err)
			}
		case <-ticker.C:
			if _, err := w.ProcessQueuedTasks(ctx, DefaultMaxCount); err != nil {
				logger.Errorf("Worker error draining queued tasks: %v", err)
			}
		}
	}
}

// ProcessQueuedTasks drains up to maxCount queued tasks, oldest first,
// and returns the number of tasks processed.
func (w *Worker) ProcessQueuedTasks(ctx context.Context, maxCount int) (int, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	tasks, err := w.tasks.ListQueued(ctx, maxCount)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range tasks {
		if err := w.Process(ctx, tasks[i].ID); err != nil {
			logger.Errorf("Worker failed to process task %d: %v", tasks[i].ID, err)
			continue
		}
		processed++
	}
	return processed, nil
}

// Process runs a single task to a terminal state. Tasks that are no
// longer queued are rejected with ErrTaskNotQueued; tasks aborted while
// still queued are finalized without a notification.
func (w *Worker) Process(ctx context.Context, taskID uint) error {
	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		if repos.IsNotFound(err) {
			return errors.Join(ErrTaskNotFound, err)
		}
		return err
	}

	if task.Aborted {
		return w.finalizeAborted(ctx, task, "")
	}
	if task.Status() != models.TaskStatusQueued {
		return fmt.Errorf("%w: task %d is %s", ErrTaskNotQueued, task.ID, task.Status())
	}

	switch task.Kind {
	case models.TaskKindArchiveImport:
		return w.processImport(ctx, task)
	case models.TaskKindExport:
		return w.processExport(ctx, task)
	default:
		return fmt.Errorf("unknown task kind: %s", task.Kind)
	}
}

// aborted checks the queue's abort channel and the persisted abort flag.
// Called at coarse-grained checkpoints between per-file operations.
func (w *Worker) aborted(ctx context.Context, task *models.Task) bool {
	if task.MessageID != nil && w.queue.Aborted(*task.MessageID) {
		return true
	}
	fresh, err := w.tasks.GetByID(ctx, task.ID)
	if err != nil {
		return false
	}
	return fresh.Aborted
}

// finalizeAborted marks the task aborted, removes temporary files and
// releases the correlation id. No notification: the cancellation was
// requested by the owner.
func (w *Worker) finalizeAborted(ctx context.Context, task *models.Task, partialFile string) error {
	task.Aborted = true
	if err := w.tasks.Update(ctx, task); err != nil {
		return err
	}
	w.cleanup(task.FilePath)
	w.cleanup(partialFile)
	if task.MessageID != nil {
		w.queue.Release(*task.MessageID)
	}
	logger.Infof("Task %d aborted", task.ID)
	return nil
}

func (w *Worker) cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove temporary file %s: %v", path, err)
	}
}

// workoutEntry is the serialized form of a workout inside an archive
type workoutEntry struct {
	Title    string  `json:"title"`
	Distance float64 `json:"distance"`
	Duration int64   `json:"duration"`
}

func (w *Worker) processImport(ctx context.Context, task *models.Task) error {
	reader, err := zip.OpenReader(task.FilePath)
	if err != nil {
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "unable to open archive"})
	}
	defer func() { _ = reader.Close() }()

	var entries []*zip.File
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, f)
	}
	if len(entries) == 0 {
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "archive does not contain any file"})
	}

	task.FilesToProcess = len(entries)
	if err := w.tasks.Update(ctx, task); err != nil {
		return err
	}

	errs := models.TaskErrors{Files: map[string]string{}}
	for i, entry := range entries {
		if w.aborted(ctx, task) {
			return w.finalizeAborted(ctx, task, "")
		}

		if err := w.importEntry(ctx, task.UserID, entry); err != nil {
			errs.Files[entry.Name] = err.Error()
		}
		task.FilesProcessed = i + 1
		// Hold progress below 100 until the final bookkeeping so the
		// task is not reported successful with files still pending.
		task.Progress = (i + 1) * 100 / len(entries)
		if task.Progress == 100 && i+1 < len(entries) {
			task.Progress = 99
		}
		if err := w.tasks.Update(ctx, task); err != nil {
			return err
		}
	}

	if len(errs.Files) > 0 {
		return w.finalizeErrored(ctx, task, errs)
	}
	return w.finalizeImportSuccess(ctx, task)
}

func (w *Worker) importEntry(ctx context.Context, userID uint, entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("unable to read file: %w", err)
	}

	var we workoutEntry
	if err := json.Unmarshal(data, &we); err != nil {
		return fmt.Errorf("invalid workout file: %w", err)
	}
	if we.Title == "" {
		we.Title = strings.TrimSuffix(filepath.Base(entry.Name), filepath.Ext(entry.Name))
	}

	workout := &models.Workout{
		UserID:   userID,
		Title:    we.Title,
		Distance: we.Distance,
		Duration: we.Duration,
	}
	return w.workouts.Create(ctx, workout)
}

func (w *Worker) finalizeImportSuccess(ctx context.Context, task *models.Task) error {
	task.Progress = 100
	if err := w.tasks.Update(ctx, task); err != nil {
		return err
	}
	w.cleanup(task.FilePath)
	if task.MessageID != nil {
		w.queue.Release(*task.MessageID)
	}

	w.notifications.Notify(ctx, task.UserID, models.NotificationWorkoutsArchiveImport, "task", task.ID)
	w.sendTaskEmail(ctx, task, EmailTemplateImportFinished)
	logger.Infof("Task %d completed: imported %d workouts", task.ID, task.FilesProcessed)
	return nil
}

func (w *Worker) finalizeErrored(ctx context.Context, task *models.Task, errs models.TaskErrors) error {
	task.Errored = true
	if err := task.SetErrors(errs); err != nil {
		return err
	}
	if err := w.tasks.Update(ctx, task); err != nil {
		return err
	}
	w.cleanup(task.FilePath)
	if task.MessageID != nil {
		w.queue.Release(*task.MessageID)
	}

	eventType := models.NotificationWorkoutsArchiveImport
	template := EmailTemplateImportErrored
	if task.Kind == models.TaskKindExport {
		eventType = models.NotificationDataExport
		template = EmailTemplateExportErrored
	}
	w.notifications.Notify(ctx, task.UserID, eventType, "task", task.ID)
	w.sendTaskEmail(ctx, task, template)
	logger.Warnf("Task %d errored", task.ID)
	return nil
}

func (w *Worker) processExport(ctx context.Context, task *models.Task) error {
	user, err := w.users.GetByID(ctx, task.UserID)
	if err != nil {
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "task owner not found"})
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "unable to create export archive"})
	}
	exportPath := filepath.Join(w.exportDir, fmt.Sprintf("export_%d_%d.zip", task.UserID, task.ID))
	out, err := os.Create(exportPath)
	if err != nil {
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "unable to create export archive"})
	}
	archive := zip.NewWriter(out)

	sections := []struct {
		name string
		load func() (interface{}, error)
	}{
		{"user.json", func() (interface{}, error) { return user, nil }},
		{"workouts.json", func() (interface{}, error) {
			return w.workouts.ListByUser(ctx, task.UserID)
		}},
		{"comments.json", func() (interface{}, error) {
			return w.comments.ListByUser(ctx, task.UserID)
		}},
	}
	task.FilesToProcess = len(sections)
	if err := w.tasks.Update(ctx, task); err != nil {
		closeExport(archive, out)
		return err
	}

	for i, section := range sections {
		if w.aborted(ctx, task) {
			closeExport(archive, out)
			return w.finalizeAborted(ctx, task, exportPath)
		}

		if err := writeExportSection(archive, section.name, section.load); err != nil {
			closeExport(archive, out)
			w.cleanup(exportPath)
			return w.finalizeErrored(ctx, task, models.TaskErrors{
				Files: map[string]string{section.name: err.Error()},
			})
		}
		task.FilesProcessed = i + 1
		task.Progress = (i + 1) * 100 / len(sections)
		if task.Progress == 100 && i+1 < len(sections) {
			task.Progress = 99
		}
		if i+1 < len(sections) {
			if err := w.tasks.Update(ctx, task); err != nil {
				closeExport(archive, out)
				return err
			}
		}
	}

	if err := archive.Close(); err != nil {
		_ = out.Close()
		w.cleanup(exportPath)
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "unable to finalize export archive"})
	}
	if err := out.Close(); err != nil {
		w.cleanup(exportPath)
		return w.finalizeErrored(ctx, task, models.TaskErrors{Archive: "unable to finalize export archive"})
	}

	task.FilePath = exportPath
	if info, err := os.Stat(exportPath); err == nil {
		task.FileSize = info.Size()
	}
	task.Progress = 100
	if err := w.tasks.Update(ctx, task); err != nil {
		return err
	}
	if task.MessageID != nil {
		w.queue.Release(*task.MessageID)
	}

	w.notifications.Notify(ctx, task.UserID, models.NotificationDataExport, "task", task.ID)
	w.sendTaskEmail(ctx, task, EmailTemplateExportReady)
	logger.Infof("Task %d completed: export ready at %s", task.ID, exportPath)
	return nil
}

func writeExportSection(archive *zip.Writer, name string, load func() (interface{}, error)) error {
	payload, err := load()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	f, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

func closeExport(archive *zip.Writer, out *os.File) {
	_ = archive.Close()
	_ = out.Close()
}

func (w *Worker) sendTaskEmail(ctx context.Context, task *models.Task, template string) {
	user, err := w.users.GetByID(ctx, task.UserID)
	if err != nil {
		logger.Warnf("No owner found for task %d, skipping email", task.ID)
		return
	}
	w.emails.Send(ctx, EmailMessage{
		Template: template,
		To:       user.Email,
		Data: map[string]interface{}{
			"username": user.Username,
			"task_id":  task.ID,
		},
	})
}
