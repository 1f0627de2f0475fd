// Package config provides configuration structures for the search engine:
// server settings, corpus location, lexicon source, and the scoring and
// context-extraction knobs of the searcher.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// SearchSettings contains the tunable parameters of scoring and context
// extraction. Scores must stay monotonic in distinct-keyword coverage and
// in occurrence counts, so all weights are required to be non-negative and
// KeywordWeight must be positive (coverage dominates frequency at equal
// total occurrence count).
type SearchSettings struct {
	KeywordWeight   float64 `yaml:"keyword_weight"`    // base points per distinct query keyword matched
	FrequencyWeight float64 `yaml:"frequency_weight"`  // bonus per raw occurrence of a matched keyword
	PhraseWeight    float64 `yaml:"phrase_weight"`     // bonus when the whole query occurs as a phrase
	ContextWindow   int     `yaml:"context_window"`    // characters of context on each side of a match
	MaxExcerpts     int     `yaml:"max_excerpts"`      // cap on excerpts returned per record
	MinTokenLength  int     `yaml:"min_token_length"`  // minimum non-numeric token length
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the top-level application configuration.
type Config struct {
	Debug       bool           `yaml:"debug"`
	Server      ServerConfig   `yaml:"server"`
	CorpusDir   string         `yaml:"corpus_dir"`
	LexiconPath string         `yaml:"lexicon_path"` // optional; empty means built-in lexicon
	Workers     int            `yaml:"workers"`      // index-build worker pool size
	Search      SearchSettings `yaml:"search"`
}

// Load reads and parses the config file at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if conflicts := cfg.Validate(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid config %s: %s", path, strings.Join(conflicts, "; "))
	}
	return &cfg, nil
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	c.Search.ApplyDefaults()
}

// ApplyDefaults fills in default values for unset search settings.
func (s *SearchSettings) ApplyDefaults() {
	if s.KeywordWeight == 0 {
		s.KeywordWeight = 10
	}
	if s.FrequencyWeight == 0 {
		s.FrequencyWeight = 1
	}
	if s.PhraseWeight == 0 {
		s.PhraseWeight = 50
	}
	if s.ContextWindow == 0 {
		s.ContextWindow = 80
	}
	if s.MaxExcerpts == 0 {
		s.MaxExcerpts = 3
	}
	if s.MinTokenLength == 0 {
		s.MinTokenLength = 2
	}
}

// Validate checks the configuration for inconsistencies and returns a list
// of human-readable conflicts; an empty list means the config is usable.
func (c *Config) Validate() []string {
	var conflicts []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		conflicts = append(conflicts, fmt.Sprintf("server port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.CorpusDir) == "" {
		conflicts = append(conflicts, "corpus_dir cannot be empty")
	}
	conflicts = append(conflicts, c.Search.Validate()...)
	return conflicts
}

// Validate checks the search settings against the scoring invariants.
func (s *SearchSettings) Validate() []string {
	var conflicts []string
	if s.KeywordWeight <= 0 {
		conflicts = append(conflicts, "keyword_weight must be positive")
	}
	if s.FrequencyWeight < 0 {
		conflicts = append(conflicts, "frequency_weight cannot be negative")
	}
	if s.PhraseWeight < 0 {
		conflicts = append(conflicts, "phrase_weight cannot be negative")
	}
	if s.ContextWindow < 0 {
		conflicts = append(conflicts, "context_window cannot be negative")
	}
	if s.MaxExcerpts < 1 {
		conflicts = append(conflicts, "max_excerpts must be at least 1")
	}
	if s.MinTokenLength < 1 {
		conflicts = append(conflicts, "min_token_length must be at least 1")
	}
	return conflicts
}

// DefaultSearchSettings returns search settings with all defaults applied.
func DefaultSearchSettings() SearchSettings {
	var s SearchSettings
	s.ApplyDefaults()
	return s
}
