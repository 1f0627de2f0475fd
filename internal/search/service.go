// Package search implements query execution against a built corpus
// snapshot: candidate selection through the inverted index, weighted
// deterministic scoring, and context excerpt extraction.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/index"
	apperrors "github.com/clinsearch/clinsearch/internal/errors"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/internal/suggest"
	"github.com/clinsearch/clinsearch/internal/tokenizer"
	"github.com/clinsearch/clinsearch/services"
	"github.com/clinsearch/clinsearch/store"
)

// ctxCheckInterval is how many candidates are scored between cancellation
// checks.
const ctxCheckInterval = 64

// Service implements the search logic over one immutable corpus snapshot.
// It holds read references only and is safe for concurrent use.
type Service struct {
	inverted   *index.InvertedIndex
	categories index.CategoryIndex
	records    *store.RecordStore
	lex        *lexicon.Lexicon
	settings   config.SearchSettings
}

// NewService creates a new search Service over a built snapshot.
func NewService(inverted *index.InvertedIndex, categories index.CategoryIndex, records *store.RecordStore, lex *lexicon.Lexicon, settings config.SearchSettings) (*Service, error) {
	if inverted == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if records == nil {
		return nil, fmt.Errorf("record store cannot be nil")
	}
	if lex == nil {
		return nil, fmt.Errorf("lexicon cannot be nil")
	}
	return &Service{
		inverted:   inverted,
		categories: categories,
		records:    records,
		lex:        lex,
		settings:   settings,
	}, nil
}

// Search executes one query. Results are ordered by score descending with
// ties broken by record ID ascending, so identical calls against an
// unmodified snapshot yield identical output.
func (s *Service) Search(ctx context.Context, req services.SearchRequest) (services.SearchResponse, error) {
	startTime := time.Now()

	if req.MaxResults <= 0 {
		return services.SearchResponse{}, apperrors.NewValidationError("max_results", "must be positive")
	}

	queryKeywords := s.queryKeywords(req.Query)
	if len(queryKeywords) == 0 {
		// No recognizable query keyword: empty result, not an error.
		return services.SearchResponse{
			Hits:    []services.SearchResult{},
			Total:   0,
			Took:    time.Since(startTime).Milliseconds(),
			QueryID: uuid.New().String(),
		}, nil
	}

	candidates := s.collectCandidates(queryKeywords, req.RecordIDFilter, req.CategoryFilter)
	if len(candidates) == 0 {
		return services.SearchResponse{
			Hits:        []services.SearchResult{},
			Total:       0,
			Took:        time.Since(startTime).Milliseconds(),
			QueryID:     uuid.New().String(),
			Suggestions: s.suggestKeywords(queryKeywords),
		}, nil
	}

	phraseQuery := strings.ToLower(strings.TrimSpace(req.Query))
	hits := make([]services.SearchResult, 0, len(candidates))
	scored := 0
	for recordID, matched := range candidates {
		scored++
		if scored%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return services.SearchResponse{}, fmt.Errorf("search cancelled: %w", err)
			}
		}

		rec, found := s.records.Get(recordID)
		if !found {
			// A posting without a stored record would violate the build
			// invariant; skip defensively.
			continue
		}

		matchedKeywords := make([]string, 0, len(matched))
		totalOccurrences := 0
		for kw, count := range matched {
			matchedKeywords = append(matchedKeywords, kw)
			totalOccurrences += count
		}
		sort.Strings(matchedKeywords)

		score := s.settings.KeywordWeight*float64(len(matchedKeywords)) +
			s.settings.FrequencyWeight*float64(totalOccurrences)
		if tokenizer.CountOccurrences(rec.RawText, phraseQuery) > 0 {
			score += s.settings.PhraseWeight
		}

		sections := extractExcerpts(rec.RawText, matchedKeywords, s.settings.ContextWindow, s.settings.MaxExcerpts)
		hits = append(hits, services.SearchResult{
			RecordID:        recordID,
			Score:           score,
			MatchedKeywords: matchedKeywords,
			MatchedSections: sections,
			Context:         strings.Join(sections, " … "),
			Metadata:        rec.CloneMetadata(),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].RecordID < hits[j].RecordID
	})

	total := len(hits)
	if len(hits) > req.MaxResults {
		hits = hits[:req.MaxResults]
	}

	return services.SearchResponse{
		Hits:    hits,
		Total:   total,
		Took:    time.Since(startTime).Milliseconds(),
		QueryID: uuid.New().String(),
	}, nil
}

// queryKeywords normalizes the query into its keyword set: the normalized
// tokens plus any lexicon terms occurring phrase-wise in the raw query, so
// multi-word medical terms act as single match units. The result is sorted
// and duplicate-free.
func (s *Service) queryKeywords(query string) []string {
	seen := make(map[string]struct{})
	for _, token := range tokenizer.TokenizeMin(query, s.settings.MinTokenLength) {
		seen[token] = struct{}{}
	}
	for term := range s.lex.MatchTerms(query) {
		seen[term] = struct{}{}
	}
	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

// suggestKeywords proposes near-miss vocabulary keywords for a query that
// hit nothing, sorted and duplicate-free across query keywords.
func (s *Service) suggestKeywords(queryKeywords []string) []string {
	vocabulary := s.inverted.Keywords()
	if len(vocabulary) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, kw := range queryKeywords {
		for _, suggestion := range suggest.Keywords(kw, vocabulary) {
			seen[suggestion] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for suggestion := range seen {
		out = append(out, suggestion)
	}
	sort.Strings(out)
	return out
}

// collectCandidates unions the posting lists of every query keyword, then
// applies the optional record-ID and category allow-lists. A category
// filter naming an unknown category contributes an empty set rather than
// failing, matching the lexicon's permissive contract.
func (s *Service) collectCandidates(queryKeywords, recordIDFilter, categoryFilter []string) map[string]map[string]int {
	candidates := make(map[string]map[string]int)
	for _, kw := range queryKeywords {
		for _, posting := range s.inverted.Lookup(kw) {
			matched, ok := candidates[posting.RecordID]
			if !ok {
				matched = make(map[string]int)
				candidates[posting.RecordID] = matched
			}
			matched[kw] = posting.Count
		}
	}

	if len(recordIDFilter) > 0 {
		allowed := make(map[string]struct{}, len(recordIDFilter))
		for _, id := range recordIDFilter {
			allowed[id] = struct{}{}
		}
		for id := range candidates {
			if _, ok := allowed[id]; !ok {
				delete(candidates, id)
			}
		}
	}

	if len(categoryFilter) > 0 {
		allowed := make(map[string]struct{})
		for _, cat := range categoryFilter {
			for _, id := range s.categories.RecordIDs(cat) {
				allowed[id] = struct{}{}
			}
		}
		for id := range candidates {
			if _, ok := allowed[id]; !ok {
				delete(candidates, id)
			}
		}
	}

	return candidates
}
