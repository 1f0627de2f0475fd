// Package store holds the in-memory record store. Like the indexes, a
// store is populated during one corpus build and read-only afterwards.
package store

import (
	"sort"

	"github.com/clinsearch/clinsearch/model"
)

// RecordStore maps record IDs to their indexed records and keeps a stable
// lexicographically sorted ID listing for pagination-style reads.
type RecordStore struct {
	records   map[string]*model.Record
	sortedIDs []string
}

// NewRecordStore returns an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]*model.Record)}
}

// Put inserts a record. A record with an already-present ID replaces the
// earlier one (last-loaded wins; duplicate IDs are a data-integrity concern
// of the record source).
func (rs *RecordStore) Put(rec *model.Record) {
	if _, exists := rs.records[rec.ID]; !exists {
		rs.sortedIDs = append(rs.sortedIDs, rec.ID)
	}
	rs.records[rec.ID] = rec
}

// Finalize sorts the ID listing. Must be called once after the last Put.
func (rs *RecordStore) Finalize() {
	sort.Strings(rs.sortedIDs)
}

// Get returns the record for an ID and whether it exists.
func (rs *RecordStore) Get(id string) (*model.Record, bool) {
	rec, ok := rs.records[id]
	return rec, ok
}

// Len returns the number of stored records.
func (rs *RecordStore) Len() int {
	return len(rs.records)
}

// IDs returns up to limit record IDs in lexicographic order. A negative or
// zero limit returns all IDs.
func (rs *RecordStore) IDs(limit int) []string {
	if limit <= 0 || limit > len(rs.sortedIDs) {
		limit = len(rs.sortedIDs)
	}
	out := make([]string, limit)
	copy(out, rs.sortedIDs[:limit])
	return out
}
