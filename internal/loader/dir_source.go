// Package loader implements the record source boundary: it reads one text
// file per record from a corpus directory and extracts header-derived
// metadata. Encoding concerns live here; the core only ever sees decoded
// text.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/model"
)

// Header-field extractors, matching the free-form record headers
// ("Sex: F", "Service: MEDICINE", ...). Fields that are absent are simply
// not added to the metadata map.
var (
	sexRegex       = regexp.MustCompile(`(?i)Sex:\s*([MF])\b`)
	serviceRegex   = regexp.MustCompile(`(?i)Service:\s*([^\n]+)`)
	complaintRegex = regexp.MustCompile(`(?i)Chief Complaint:\s*([^\n]+)`)
	diagnosisRegex = regexp.MustCompile(`(?i)Discharge Diagnosis:\s*([^\n]+)`)
	allergyRegex   = regexp.MustCompile(`(?i)Allergies:\s*([^\n]+)`)
	admissionRegex = regexp.MustCompile(`(?i)Admission Type:\s*([^\n]+)`)
)

// DirSource loads records from a directory containing one .txt file per
// record. The record ID is the filename without its extension.
// It implements services.RecordSource.
type DirSource struct {
	dir    string
	logger *zap.Logger
}

// NewDirSource creates a DirSource for the given corpus directory.
func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSource{dir: dir, logger: logger}
}

// Load reads every record file in the corpus directory. Unreadable files
// are skipped and logged, and their IDs reported in failedIDs, so one bad
// file does not prevent the rest of the corpus from being searchable. An
// unreadable directory is a hard CorpusLoadError.
func (s *DirSource) Load(ctx context.Context) ([]model.RawRecord, []string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, apperrors.NewCorpusLoadError(s.dir, nil, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	records := make([]model.RawRecord, 0, len(names))
	var failedIDs []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("corpus load cancelled: %w", err)
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("skipping unreadable record file",
				zap.String("record_id", id),
				zap.String("file", name),
				zap.Error(err))
			failedIDs = append(failedIDs, id)
			continue
		}
		text := string(data)
		records = append(records, model.RawRecord{
			ID:       id,
			Text:     text,
			Metadata: ExtractMetadata(text),
		})
	}

	s.logger.Info("corpus loaded",
		zap.String("dir", s.dir),
		zap.Int("records", len(records)),
		zap.Int("failed", len(failedIDs)))
	return records, failedIDs, nil
}

// ExtractMetadata pulls the well-known header fields out of a record's raw
// text. The result is an open-ended key/value set; unknown headers are
// ignored and missing ones omitted.
func ExtractMetadata(text string) map[string]string {
	meta := make(map[string]string)
	if m := sexRegex.FindStringSubmatch(text); m != nil {
		meta["sex"] = strings.ToUpper(m[1])
	}
	if m := serviceRegex.FindStringSubmatch(text); m != nil {
		meta["service"] = strings.TrimSpace(m[1])
	}
	if m := complaintRegex.FindStringSubmatch(text); m != nil {
		meta["chief_complaint"] = strings.TrimSpace(m[1])
	}
	if m := diagnosisRegex.FindStringSubmatch(text); m != nil {
		meta["discharge_diagnosis"] = strings.TrimSpace(m[1])
	}
	if m := admissionRegex.FindStringSubmatch(text); m != nil {
		meta["admission_type"] = strings.TrimSpace(m[1])
	}
	if m := allergyRegex.FindStringSubmatch(text); m != nil {
		allergies := strings.TrimSpace(m[1])
		if allergies != "" && !strings.Contains(strings.ToLower(allergies), "no known allergies") {
			meta["allergies"] = allergies
		}
	}
	return meta
}
