// Package index defines the inverted keyword index and the derived
// category index. Both are built once per corpus load by the indexing
// service and are treated as immutable afterwards: concurrent readers need
// no locking, and a rebuild produces a fresh pair instead of mutating the
// old one.
package index

import "sort"

// InvertedIndex maps a normalized keyword to the records containing it.
type InvertedIndex struct {
	Postings map[string]PostingList
}

// NewInvertedIndex returns an empty inverted index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{Postings: make(map[string]PostingList)}
}

// Lookup returns the posting list for a keyword, or nil when the keyword is
// not indexed.
func (ii *InvertedIndex) Lookup(keyword string) PostingList {
	return ii.Postings[keyword]
}

// DistinctKeywords returns the number of distinct indexed keywords.
func (ii *InvertedIndex) DistinctKeywords() int {
	return len(ii.Postings)
}

// Keywords returns every indexed keyword in ascending order.
func (ii *InvertedIndex) Keywords() []string {
	out := make([]string, 0, len(ii.Postings))
	for kw := range ii.Postings {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Add records count occurrences of keyword in the given record. Calling Add
// twice for the same (keyword, record) pair accumulates the counts; lists
// are re-sorted by Finalize.
func (ii *InvertedIndex) Add(keyword, recordID string, count int) {
	if count <= 0 {
		return
	}
	list := ii.Postings[keyword]
	for i := range list {
		if list[i].RecordID == recordID {
			list[i].Count += count
			return
		}
	}
	ii.Postings[keyword] = append(list, Posting{RecordID: recordID, Count: count})
}

// Finalize sorts every posting list by Count descending, RecordID
// ascending. The index must not be modified after Finalize.
func (ii *InvertedIndex) Finalize() {
	for kw, list := range ii.Postings {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].RecordID < list[j].RecordID
		})
		ii.Postings[kw] = list
	}
}

// CategoryIndex maps a category name to the sorted IDs of records whose
// text matched at least one of the category's terms. Derived
// deterministically from the inverted index and the lexicon.
type CategoryIndex map[string][]string

// RecordIDs returns the record IDs tagged with the category. Unknown
// categories yield nil, never an error.
func (ci CategoryIndex) RecordIDs(category string) []string {
	return ci[category]
}
