// Package testutil provides helpers shared by the package tests: building
// throwaway corpora on disk, wiring a fully loaded engine around them, and
// polling background jobs.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/internal/engine"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/internal/loader"
	"github.com/clinsearch/clinsearch/model"
	"github.com/clinsearch/clinsearch/services"
)

// WriteCorpus writes one .txt file per record into a fresh temp directory
// and returns the directory path. Cleanup is handled by t.TempDir.
func WriteCorpus(t *testing.T, records map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for id, text := range records {
		path := filepath.Join(dir, id+".txt")
		require.NoError(t, os.WriteFile(path, []byte(text), 0600), "failed to write record %s", id)
	}
	return dir
}

// NewTestEngine builds an engine over the given records using the built-in
// lexicon and default settings, loaded and ready to serve queries.
func NewTestEngine(t *testing.T, records map[string]string) *engine.Engine {
	t.Helper()
	dir := WriteCorpus(t, records)
	source := loader.NewDirSource(dir, zap.NewNop())

	eng, err := engine.NewEngine(source, lexicon.Default(), config.DefaultSearchSettings(), 2, zap.NewNop())
	require.NoError(t, err, "failed to create engine")
	require.NoError(t, eng.Reload(context.Background()), "failed to load test corpus")
	return eng
}

// WaitForJobCompletion polls a job until it completes, failing the test if
// it fails or does not finish within timeout.
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, timeout time.Duration) *model.Job {
	t.Helper()
	deadline := time.After(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			t.Fatalf("job %s did not complete within %v", jobID, timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				return job
			case model.JobStatusFailed:
				t.Fatalf("job %s failed: %s", jobID, job.Error)
				return nil
			}
		}
	}
}
