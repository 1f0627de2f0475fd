// Package indexing builds the inverted index, category index, and record
// store from a loaded corpus. A build is a one-shot batch operation: the
// per-record analysis fans out over a worker pool (records are independent
// of each other) and a single-threaded merge combines the partial results,
// so the finished structures need no locking.
package indexing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/index"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/internal/tokenizer"
	"github.com/clinsearch/clinsearch/model"
	"github.com/clinsearch/clinsearch/store"
)

// Build is the immutable output of one corpus indexing pass.
type Build struct {
	Inverted   *index.InvertedIndex
	Categories index.CategoryIndex
	Records    *store.RecordStore
}

// Service implements the corpus indexing logic.
type Service struct {
	lex      *lexicon.Lexicon
	settings config.SearchSettings
	workers  int
	logger   *zap.Logger
}

// NewService creates a new indexing Service.
func NewService(lex *lexicon.Lexicon, settings config.SearchSettings, workers int, logger *zap.Logger) (*Service, error) {
	if lex == nil {
		return nil, fmt.Errorf("lexicon cannot be nil")
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{lex: lex, settings: settings, workers: workers, logger: logger}, nil
}

// BuildIndex analyzes every record and produces the three owned
// structures. Records with duplicate IDs follow last-loaded-wins: only the
// final occurrence contributes postings. Records with empty text are still
// registered in the store, just absent from all posting lists.
func (s *Service) BuildIndex(ctx context.Context, records []model.RawRecord) (*Build, error) {
	deduped := dedupeLastWins(records)

	analyzed := make([]*model.Record, len(deduped))
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexing worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range deduped {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			analyzed[i] = s.analyzeRecord(&deduped[i])
		}); err != nil {
			// Pool rejected the task; analyze inline rather than dropping
			// the record.
			analyzed[i] = s.analyzeRecord(&deduped[i])
			wg.Done()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("index build cancelled: %w", err)
	}

	// Single-threaded merge in stable input order.
	build := &Build{
		Inverted:   index.NewInvertedIndex(),
		Categories: make(index.CategoryIndex),
		Records:    store.NewRecordStore(),
	}
	for _, rec := range analyzed {
		build.Records.Put(rec)
		for kw, count := range rec.KeywordCounts {
			build.Inverted.Add(kw, rec.ID, count)
		}
		for _, cat := range rec.Categories {
			build.Categories[cat] = append(build.Categories[cat], rec.ID)
		}
	}
	build.Inverted.Finalize()
	build.Records.Finalize()
	for cat, ids := range build.Categories {
		build.Categories[cat] = sortedUnique(ids)
	}

	s.logger.Info("index built",
		zap.Int("records", build.Records.Len()),
		zap.Int("distinct_keywords", build.Inverted.DistinctKeywords()),
		zap.Int("categories", len(build.Categories)))
	return build, nil
}

// analyzeRecord tokenizes one record and derives its keyword multiset and
// category memberships. Pure per-record work; safe to run concurrently.
func (s *Service) analyzeRecord(raw *model.RawRecord) *model.Record {
	counts := make(map[string]int)
	for _, token := range tokenizer.TokenizeMin(raw.Text, s.settings.MinTokenLength) {
		counts[token]++
	}

	// Lexicon terms are matched phrase-aware so multi-word terms ("chest
	// pain") become single index keys. Single-word terms are already
	// covered by tokenization and keep their token counts.
	termCounts := s.lex.MatchTerms(raw.Text)
	categories := make(map[string]struct{})
	for term, n := range termCounts {
		if _, indexed := counts[term]; !indexed {
			counts[term] = n
		}
		for _, cat := range s.lex.CategoriesOf(term) {
			categories[cat] = struct{}{}
		}
	}

	catNames := make([]string, 0, len(categories))
	for cat := range categories {
		catNames = append(catNames, cat)
	}

	return &model.Record{
		ID:            raw.ID,
		RawText:       raw.Text,
		Metadata:      raw.Metadata,
		Categories:    sortedUnique(catNames),
		KeywordCounts: counts,
	}
}

// dedupeLastWins collapses duplicate record IDs, keeping the last
// occurrence and the original relative order of the survivors.
func dedupeLastWins(records []model.RawRecord) []model.RawRecord {
	last := make(map[string]int, len(records))
	for i := range records {
		last[records[i].ID] = i
	}
	out := make([]model.RawRecord, 0, len(last))
	for i := range records {
		if last[records[i].ID] == i {
			out = append(out, records[i])
		}
	}
	return out
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
