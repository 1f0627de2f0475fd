package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/model"
)

func waitForStatus(t *testing.T, m *Manager, jobID string, want model.JobStatus) *model.Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s never reached status %s", jobID, want)
			return nil
		default:
			job, err := m.GetJob(jobID)
			require.NoError(t, err)
			if job.Status == want {
				return job
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestCreateAndGetJob(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, map[string]string{"trigger": "api"})

	job, err := m.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeReindex, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "api", job.Metadata["trigger"])
}

func TestGetJobUnknown(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	_, err := m.GetJob("no-such-job")
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestExecuteJobSuccess(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, nil)

	require.NoError(t, m.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		m.UpdateJobProgress(jobID, 1, 2, "halfway")
		return nil
	}))

	job := waitForStatus(t, m, jobID, model.JobStatusCompleted)
	assert.Empty(t, job.Error)
	assert.NotNil(t, job.CompletedAt)
}

func TestExecuteJobFailure(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, nil)

	require.NoError(t, m.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return errors.New("disk on fire")
	}))

	job := waitForStatus(t, m, jobID, model.JobStatusFailed)
	assert.Equal(t, "disk on fire", job.Error)
}

func TestExecuteJobUnknownID(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	err := m.ExecuteJob("no-such-job", func(ctx context.Context, job *model.Job) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestExecuteJobTwice(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, nil)

	require.NoError(t, m.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error { return nil }))
	waitForStatus(t, m, jobID, model.JobStatusCompleted)

	err := m.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error { return nil })
	assert.Error(t, err)
}

func TestListJobsFilteredByStatus(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	m.CreateJob(model.JobTypeReindex, nil)
	m.CreateJob(model.JobTypeReindex, nil)

	pending := model.JobStatusPending
	assert.Len(t, m.ListJobs(&pending), 2)

	completed := model.JobStatusCompleted
	assert.Empty(t, m.ListJobs(&completed))
	assert.Len(t, m.ListJobs(nil), 2)
}

func TestUpdateJobProgress(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, nil)
	m.UpdateJobProgress(jobID, 3, 10, "loading")

	job, err := m.GetJob(jobID)
	require.NoError(t, err)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 3, job.Progress.Current)
	assert.Equal(t, 10, job.Progress.Total)
	assert.Equal(t, "loading", job.Progress.Message)
	assert.Equal(t, 30.0, job.Progress.GetProgressPercentage())
}

func TestCleanupOldJobs(t *testing.T) {
	m := NewManager(1, zap.NewNop())
	jobID := m.CreateJob(model.JobTypeReindex, nil)
	require.NoError(t, m.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error { return nil }))
	waitForStatus(t, m, jobID, model.JobStatusCompleted)

	m.CleanupOldJobs(0)
	_, err := m.GetJob(jobID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}
