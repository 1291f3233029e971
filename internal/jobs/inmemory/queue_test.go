package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kuxala/hackathon-project-sub000/internal/jobs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(store jobs.JobStore) *Queue {
	return NewQueue(Config{Workers: 2, BufferSize: 10, MaxRetries: 2, RetryBackoff: 5 * time.Millisecond}, store, zerolog.Nop())
}

func waitForStatus(t *testing.T, store *Store, jobID string, status jobs.JobStatus) *jobs.RefreshInsightsJob {
	t.Helper()
	var job *jobs.RefreshInsightsJob
	require.Eventually(t, func() bool {
		j, err := store.GetJob(context.Background(), jobID)
		if err != nil {
			return false
		}
		job = j
		return j.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestQueueProcessesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := newTestQueue(store)
	defer q.Close()

	var handled atomic.Int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		assert.Equal(t, jobs.JobTypeRefreshInsights, job.GetType())
		handled.Add(1)
		return nil
	}))

	job := &jobs.RefreshInsightsJob{UserID: "user-1", Reason: "import"}
	require.NoError(t, q.PublishRefreshInsights(ctx, job))
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, 2, job.MaxRetries, "limit comes from the queue config")

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, int32(1), handled.Load())
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := newTestQueue(store)
	defer q.Close()

	var attempts atomic.Int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		if attempts.Add(1) < 2 {
			return errors.New("transient")
		}
		return nil
	}))

	job := &jobs.RefreshInsightsJob{UserID: "user-1"}
	require.NoError(t, q.PublishRefreshInsights(ctx, job))

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	assert.Equal(t, 1, done.RetryCount)
	assert.Empty(t, done.Error)
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := newTestQueue(store)
	defer q.Close()

	var attempts atomic.Int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		attempts.Add(1)
		return errors.New("store unavailable")
	}))

	job := &jobs.RefreshInsightsJob{UserID: "user-1"}
	require.NoError(t, q.PublishRefreshInsights(ctx, job))

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	assert.Equal(t, 2, failed.RetryCount)
	assert.Equal(t, "store unavailable", failed.Error)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestQueueRejectsPublishAfterStop(t *testing.T) {
	q := newTestQueue(nil)
	require.NoError(t, q.Stop(context.Background()))
	require.NoError(t, q.Stop(context.Background()), "stop is idempotent")

	err := q.PublishRefreshInsights(context.Background(), &jobs.RefreshInsightsJob{UserID: "user-1"})
	assert.Error(t, err)
	assert.Error(t, q.Start(context.Background(), func(context.Context, jobs.Job) error { return nil }))
}
