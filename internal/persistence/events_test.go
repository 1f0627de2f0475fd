package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsearch/clinsearch/model"
)

func TestSaveAndLoadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "analytics.gob")
	events := []model.SearchEvent{
		{Query: "aspirin", Hits: 2, TookMS: 3, Timestamp: time.Now().UTC()},
		{Query: "diabetis", Hits: 0, TookMS: 1, Timestamp: time.Now().UTC()},
	}

	require.NoError(t, SaveEvents(path, events))

	loaded, err := LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "aspirin", loaded[0].Query)
	assert.Equal(t, 2, loaded[0].Hits)
	assert.Equal(t, "diabetis", loaded[1].Query)
	assert.Equal(t, 0, loaded[1].Hits)
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents(filepath.Join(t.TempDir(), "absent.gob"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEventsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0600))

	_, err := LoadEvents(path)
	assert.Error(t, err)
}
