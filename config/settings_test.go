package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{CorpusDir: "/data/records"}
	cfg.ApplyDefaults()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Greater(t, cfg.Workers, 0)
	assert.Equal(t, 10.0, cfg.Search.KeywordWeight)
	assert.Equal(t, 1.0, cfg.Search.FrequencyWeight)
	assert.Equal(t, 50.0, cfg.Search.PhraseWeight)
	assert.Equal(t, 80, cfg.Search.ContextWindow)
	assert.Equal(t, 3, cfg.Search.MaxExcerpts)
	assert.Equal(t, 2, cfg.Search.MinTokenLength)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		CorpusDir: "/data/records",
		Server:    ServerConfig{Host: "127.0.0.1", Port: 9000},
		Search:    SearchSettings{KeywordWeight: 5},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Search.KeywordWeight)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErrors int
	}{
		{
			name:       "valid defaults",
			mutate:     func(c *Config) {},
			wantErrors: 0,
		},
		{
			name:       "missing corpus dir",
			mutate:     func(c *Config) { c.CorpusDir = "  " },
			wantErrors: 1,
		},
		{
			name:       "port out of range",
			mutate:     func(c *Config) { c.Server.Port = 70000 },
			wantErrors: 1,
		},
		{
			name:       "negative weights",
			mutate:     func(c *Config) { c.Search.KeywordWeight = -1; c.Search.PhraseWeight = -1 },
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{CorpusDir: "/data/records"}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			assert.Len(t, cfg.Validate(), tt.wantErrors)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
debug: true
server:
  host: 127.0.0.1
  port: 9090
corpus_dir: /data/records
workers: 4
search:
  keyword_weight: 20
  context_window: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/records", cfg.CorpusDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 20.0, cfg.Search.KeywordWeight)
	assert.Equal(t, 60, cfg.Search.ContextWindow)
	// Unset knobs still get defaults.
	assert.Equal(t, 50.0, cfg.Search.PhraseWeight)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultSearchSettingsValid(t *testing.T) {
	settings := DefaultSearchSettings()
	assert.Empty(t, settings.Validate())
}
