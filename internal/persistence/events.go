// Package persistence saves analytics search events to disk and loads them
// back, so query analytics survive a process restart. The searchable corpus
// itself is never persisted; it is always rebuilt from the record source.
package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clinsearch/clinsearch/model"
)

// SaveEvents encodes the events to path, creating parent directories as
// needed.
func SaveEvents(path string, events []model.SearchEvent) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.Create(path) // #nosec G304 -- path comes from configuration, not request input
	if err != nil {
		return fmt.Errorf("failed to create analytics file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gob.NewEncoder(file).Encode(events); err != nil {
		return fmt.Errorf("failed to encode analytics to %s: %w", path, err)
	}
	return nil
}

// LoadEvents decodes events from path. A missing file yields os.ErrNotExist
// so callers can start with empty analytics.
func LoadEvents(path string) ([]model.SearchEvent, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from configuration, not request input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to open analytics file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var events []model.SearchEvent
	if err := gob.NewDecoder(file).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode analytics from %s: %w", path, err)
	}
	return events, nil
}
