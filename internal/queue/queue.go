// Package queue provides in-process job dispatch and abort signaling for
// background tasks. The database row remains the durable source of truth;
// the queue only carries task ids and correlation ids between the API and
// the worker.
package queue

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fittrackd/fittrackd/internal/logger"
)

const (
	// DefaultChannelSize is the buffer size for the job channel
	DefaultChannelSize = 100
)

// Job represents one enqueued unit of work
type Job struct {
	TaskID    uint      // The task record ID
	MessageID uuid.UUID // The correlation ID used for abort signaling
}

// Queue dispatches jobs to the worker and tracks abort signals keyed by
// correlation id.
type Queue struct {
	jobs     chan Job
	abortsMu sync.RWMutex
	aborts   map[uuid.UUID]bool
}

// New creates a queue with the given channel buffer size
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultChannelSize
	}
	return &Queue{
		jobs:   make(chan Job, size),
		aborts: make(map[uuid.UUID]bool),
	}
}

// Enqueue registers a task for processing and returns the correlation id
// to store on the task record.
func (q *Queue) Enqueue(taskID uint) (uuid.UUID, error) {
	messageID := uuid.New()

	q.abortsMu.Lock()
	q.aborts[messageID] = false
	q.abortsMu.Unlock()

	select {
	case q.jobs <- Job{TaskID: taskID, MessageID: messageID}:
		logger.Debugf("Enqueued task %d with message id %s", taskID, messageID)
		return messageID, nil
	default:
		q.abortsMu.Lock()
		delete(q.aborts, messageID)
		q.abortsMu.Unlock()
		return uuid.Nil, fmt.Errorf("queue is full")
	}
}

// Jobs returns the channel the worker consumes from
func (q *Queue) Jobs() <-chan Job {
	return q.jobs
}

// SignalAbort requests cancellation of the job with the given correlation
// id. Signaling an unknown id still records the request so a job enqueued
// before a process restart can be stopped when it is picked up.
func (q *Queue) SignalAbort(messageID uuid.UUID) {
	q.abortsMu.Lock()
	q.aborts[messageID] = true
	q.abortsMu.Unlock()
	logger.Debugf("Abort signaled for message id %s", messageID)
}

// Aborted reports whether an abort was signaled for the correlation id
func (q *Queue) Aborted(messageID uuid.UUID) bool {
	q.abortsMu.RLock()
	defer q.abortsMu.RUnlock()
	return q.aborts[messageID]
}

// Release forgets a correlation id once its task reached a terminal state
func (q *Queue) Release(messageID uuid.UUID) {
	q.abortsMu.Lock()
	delete(q.aborts, messageID)
	q.abortsMu.Unlock()
}
