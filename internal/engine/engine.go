// Package engine is the query facade: it owns the single built corpus
// snapshot for the process and exposes the search and read-only corpus
// operations external callers use. A snapshot is immutable; reloading
// builds a fresh one offline and swaps it in atomically, so concurrent
// searches never observe a partially built index.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/internal/analytics"
	apperrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/internal/indexing"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/internal/persistence"
	"github.com/clinsearch/clinsearch/internal/search"
	"github.com/clinsearch/clinsearch/model"
	"github.com/clinsearch/clinsearch/services"
)

// topKeywordLimit caps the indexed-keyword listing in GetRecordInfo.
const topKeywordLimit = 20

// snapshot bundles one build with the searcher reading it.
type snapshot struct {
	build     *indexing.Build
	searcher  *search.Service
	failedIDs []string
}

// Engine implements services.Searcher and services.CorpusReader over the
// current corpus snapshot.
type Engine struct {
	mu        sync.RWMutex
	current   *snapshot
	source    services.RecordSource
	indexer   *indexing.Service
	lex       *lexicon.Lexicon
	settings  config.SearchSettings
	analytics *analytics.Collector
	logger    *zap.Logger
}

// NewEngine creates the facade. Call Reload once before serving queries;
// until then every operation reports an unloaded corpus.
func NewEngine(source services.RecordSource, lex *lexicon.Lexicon, settings config.SearchSettings, workers int, logger *zap.Logger) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("record source cannot be nil")
	}
	if lex == nil {
		return nil, fmt.Errorf("lexicon cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	indexer, err := indexing.NewService(lex, settings, workers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexing service: %w", err)
	}
	return &Engine{
		source:    source,
		indexer:   indexer,
		lex:       lex,
		settings:  settings,
		analytics: analytics.NewCollector(),
		logger:    logger,
	}, nil
}

// Reload loads the corpus from the record source, builds a fresh snapshot,
// and swaps it in. Searches keep running against the old snapshot until
// the swap. Per-record load failures are tolerated and surfaced through
// CorpusStats; a failed load or build leaves the previous snapshot intact.
func (e *Engine) Reload(ctx context.Context) error {
	records, failedIDs, err := e.source.Load(ctx)
	if err != nil {
		return err
	}
	build, err := e.indexer.BuildIndex(ctx, records)
	if err != nil {
		return err
	}
	searcher, err := search.NewService(build.Inverted, build.Categories, build.Records, e.lex, e.settings)
	if err != nil {
		return fmt.Errorf("failed to create search service: %w", err)
	}

	e.mu.Lock()
	e.current = &snapshot{build: build, searcher: searcher, failedIDs: failedIDs}
	e.mu.Unlock()

	e.logger.Info("corpus snapshot swapped",
		zap.Int("records", build.Records.Len()),
		zap.Int("failed_records", len(failedIDs)))
	return nil
}

// Search delegates to the current snapshot's searcher and records the
// query for analytics.
func (e *Engine) Search(ctx context.Context, req services.SearchRequest) (services.SearchResponse, error) {
	snap, err := e.snapshot()
	if err != nil {
		return services.SearchResponse{}, err
	}
	response, err := snap.searcher.Search(ctx, req)
	if err != nil {
		return services.SearchResponse{}, err
	}
	e.analytics.Track(req.Query, response.Total, response.Took)
	return response, nil
}

// Analytics summarizes the queries executed so far.
func (e *Engine) Analytics() model.AnalyticsSummary {
	return e.analytics.Summary()
}

// SaveAnalytics writes the recorded search events to path.
func (e *Engine) SaveAnalytics(path string) error {
	return persistence.SaveEvents(path, e.analytics.Events())
}

// LoadAnalytics restores search events saved by a previous process. A
// missing file surfaces as os.ErrNotExist; callers typically start with
// empty analytics in that case.
func (e *Engine) LoadAnalytics(path string) error {
	events, err := persistence.LoadEvents(path)
	if err != nil {
		return err
	}
	e.analytics.Restore(events)
	e.logger.Info("analytics restored",
		zap.String("path", path),
		zap.Int("events", len(events)))
	return nil
}

// GetRecordInfo returns the indexed view of one record: its metadata,
// categories, and top indexed keywords by occurrence count (ties broken by
// keyword ascending).
func (e *Engine) GetRecordInfo(recordID string) (services.RecordInfo, error) {
	snap, err := e.snapshot()
	if err != nil {
		return services.RecordInfo{}, err
	}
	rec, found := snap.build.Records.Get(recordID)
	if !found {
		return services.RecordInfo{}, apperrors.NewRecordNotFoundError(recordID)
	}

	top := make([]services.KeywordCount, 0, len(rec.KeywordCounts))
	for kw, count := range rec.KeywordCounts {
		top = append(top, services.KeywordCount{Keyword: kw, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Keyword < top[j].Keyword
	})
	if len(top) > topKeywordLimit {
		top = top[:topKeywordLimit]
	}

	return services.RecordInfo{
		RecordID:    rec.ID,
		Metadata:    rec.CloneMetadata(),
		Categories:  append([]string(nil), rec.Categories...),
		TopKeywords: top,
		TextLength:  len(rec.RawText),
	}, nil
}

// CorpusStats aggregates read-only statistics over the current snapshot.
// Before the first successful Reload it reports an empty corpus.
func (e *Engine) CorpusStats() services.CorpusStats {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	if snap == nil {
		return services.CorpusStats{RecordsByCategory: map[string]int{}}
	}

	byCategory := make(map[string]int, len(snap.build.Categories))
	for cat, ids := range snap.build.Categories {
		byCategory[cat] = len(ids)
	}
	return services.CorpusStats{
		TotalRecords:      snap.build.Records.Len(),
		DistinctKeywords:  snap.build.Inverted.DistinctKeywords(),
		CategoryTermCount: e.lex.TermCount(),
		RecordsByCategory: byCategory,
		FailedRecordIDs:   append([]string(nil), snap.failedIDs...),
	}
}

// ListRecordIDs returns up to limit record IDs in lexicographic order.
func (e *Engine) ListRecordIDs(limit int) []string {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	if snap == nil {
		return []string{}
	}
	return snap.build.Records.IDs(limit)
}

// Categories returns the lexicon's category names.
func (e *Engine) Categories() []string {
	return e.lex.Categories()
}

func (e *Engine) snapshot() (*snapshot, error) {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	if snap == nil {
		return nil, fmt.Errorf("corpus not loaded; call Reload first")
	}
	return snap, nil
}
