package model

import "time"

// SearchEvent captures one executed query for analytics.
type SearchEvent struct {
	Query     string    `json:"query"`
	Hits      int       `json:"hits"`
	TookMS    int64     `json:"took_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryCount pairs a query string with how often it was issued.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// AnalyticsSummary aggregates the recorded search events.
type AnalyticsSummary struct {
	TotalSearches        int          `json:"total_searches"`
	ZeroHitSearches      int          `json:"zero_hit_searches"`
	AvgTookMS            float64      `json:"avg_took_ms"`
	PopularQueries       []QueryCount `json:"popular_queries"`
	RecentZeroHitQueries []string     `json:"recent_zero_hit_queries"`
}
