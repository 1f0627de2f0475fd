package services

import (
	"context"

	"github.com/clinsearch/clinsearch/model"
)

// SearchRequest carries all parameters of a single search call.
// RecordIDFilter and CategoryFilter are optional allow-lists; nil or empty
// slices mean "no restriction". MaxResults must be positive.
type SearchRequest struct {
	Query          string   `json:"query"`
	RecordIDFilter []string `json:"record_ids,omitempty"`
	CategoryFilter []string `json:"categories,omitempty"`
	MaxResults     int      `json:"max_results"`
}

// SearchResult represents a single record in the search results, including
// which query keywords hit it and the extracted context excerpts.
type SearchResult struct {
	RecordID        string            `json:"record_id"`
	Score           float64           `json:"score"`
	MatchedKeywords []string          `json:"matched_keywords"`
	MatchedSections []string          `json:"matched_sections"`
	Context         string            `json:"context"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// SearchResponse wraps the ordered hits of one query. Suggestions is only
// populated when the query matched nothing and near-miss keywords exist in
// the indexed vocabulary.
type SearchResponse struct {
	Hits        []SearchResult `json:"hits"`
	Total       int            `json:"total"`
	Took        int64          `json:"took"`     // milliseconds
	QueryID     string         `json:"query_id"` // unique UUID for this search query
	Suggestions []string       `json:"suggestions,omitempty"`
}

// RecordInfo is the read-only view of one indexed record exposed by the
// query facade.
type RecordInfo struct {
	RecordID    string            `json:"record_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Categories  []string          `json:"categories"`
	TopKeywords []KeywordCount    `json:"top_keywords"`
	TextLength  int               `json:"text_length"`
}

// KeywordCount pairs an indexed keyword with its occurrence count.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// CorpusStats aggregates read-only statistics over the built indexes.
type CorpusStats struct {
	TotalRecords      int            `json:"total_records"`
	DistinctKeywords  int            `json:"distinct_keywords"`
	CategoryTermCount int            `json:"category_term_count"`
	RecordsByCategory map[string]int `json:"records_by_category"`
	FailedRecordIDs   []string       `json:"failed_record_ids,omitempty"`
}

// Searcher defines the query operation of the core.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
}

// CorpusReader defines the auxiliary read-only operations of the facade.
type CorpusReader interface {
	GetRecordInfo(recordID string) (RecordInfo, error)
	CorpusStats() CorpusStats
	ListRecordIDs(limit int) []string
}

// RecordSource is the external collaborator that loads raw records. The
// core consumes already-decoded text; encoding detection is the source's
// concern. Implementations report per-record failures via the returned
// failed-ID slice rather than aborting the whole load.
type RecordSource interface {
	Load(ctx context.Context) (records []model.RawRecord, failedIDs []string, err error)
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}
