package index

// Posting records that a keyword occurs Count times (case-insensitively) in
// the record identified by RecordID. Count is always >= 1.
type Posting struct {
	RecordID string `json:"record_id"`
	Count    int    `json:"count"`
}

// PostingList is the per-keyword list of postings, sorted by Count
// descending and RecordID ascending so iteration order is deterministic.
type PostingList []Posting
