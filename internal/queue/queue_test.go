package queue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDispatchesJob(t *testing.T) {
	q := New(2)

	messageID, err := q.Enqueue(42)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, messageID)

	job := <-q.Jobs()
	require.Equal(t, uint(42), job.TaskID)
	require.Equal(t, messageID, job.MessageID)
}

func TestEnqueueFullQueue(t *testing.T) {
	q := New(1)

	_, err := q.Enqueue(1)
	require.NoError(t, err)

	messageID, err := q.Enqueue(2)
	require.Error(t, err)
	require.Equal(t, uuid.Nil, messageID)
	require.Equal(t, "queue is full", err.Error())
}

func TestAbortSignaling(t *testing.T) {
	q := New(2)

	messageID, err := q.Enqueue(1)
	require.NoError(t, err)
	require.False(t, q.Aborted(messageID))

	q.SignalAbort(messageID)
	require.True(t, q.Aborted(messageID))

	q.Release(messageID)
	require.False(t, q.Aborted(messageID))
}

func TestAbortUnknownMessageID(t *testing.T) {
	q := New(2)

	// Abort requests for ids the queue has never seen are recorded so a
	// task enqueued before a restart can still be stopped.
	messageID := uuid.New()
	q.SignalAbort(messageID)
	require.True(t, q.Aborted(messageID))
}
