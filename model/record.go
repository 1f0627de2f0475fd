package model

// RawRecord is a clinical document as delivered by a record source, before
// any indexing has happened. Text must already be decoded Unicode; the core
// makes no assumption about the original byte encoding.
type RawRecord struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Record is one indexed clinical document. It is created once during corpus
// load and never mutated afterwards; a rebuild produces fresh Record values.
type Record struct {
	ID            string            `json:"id"`
	RawText       string            `json:"-"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Categories    []string          `json:"categories"`      // sorted category names this record matched
	KeywordCounts map[string]int    `json:"keyword_counts"`  // per-record keyword multiset
}

// CloneMetadata returns a copy of the record's metadata map so callers can
// hold result objects without aliasing index-owned state.
func (r *Record) CloneMetadata() map[string]string {
	if r.Metadata == nil {
		return nil
	}
	out := make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		out[k] = v
	}
	return out
}

// HasCategory reports whether the record was tagged with the given category.
func (r *Record) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}
