// Package analytics tracks executed queries in memory and aggregates them
// into a summary for the stats surface. Tracking sits on the query path,
// so the collector keeps a bounded ring of events and holds its lock only
// for an append.
package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/clinsearch/clinsearch/model"
)

const (
	// maxEventsToKeep bounds collector memory; older events roll off.
	maxEventsToKeep = 10000
	// maxPopularQueries caps the popular-query listing in the summary.
	maxPopularQueries = 10
	// maxZeroHitQueries caps the recent zero-hit listing in the summary.
	maxZeroHitQueries = 10
)

// Collector records search events. Safe for concurrent use.
type Collector struct {
	mu     sync.RWMutex
	events []model.SearchEvent
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{events: make([]model.SearchEvent, 0, 256)}
}

// Events returns a copy of the recorded events, oldest first.
func (c *Collector) Events() []model.SearchEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.SearchEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Restore seeds the collector with previously saved events, replacing
// anything recorded so far. The ring bound still applies.
func (c *Collector) Restore(events []model.SearchEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(events) > maxEventsToKeep {
		events = events[len(events)-maxEventsToKeep:]
	}
	c.events = append(c.events[:0], events...)
}

// Track records one executed query.
func (c *Collector) Track(query string, hits int, tookMS int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, model.SearchEvent{
		Query:     query,
		Hits:      hits,
		TookMS:    tookMS,
		Timestamp: time.Now(),
	})
	if len(c.events) > maxEventsToKeep {
		c.events = c.events[len(c.events)-maxEventsToKeep:]
	}
}

// Summary aggregates the recorded events: totals, average latency, the most
// frequent queries (ties broken by query ascending), and the most recent
// zero-hit queries, newest first and duplicate-free.
func (c *Collector) Summary() model.AnalyticsSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := model.AnalyticsSummary{
		PopularQueries:       []model.QueryCount{},
		RecentZeroHitQueries: []string{},
	}
	summary.TotalSearches = len(c.events)
	if len(c.events) == 0 {
		return summary
	}

	var totalTook int64
	queryCounts := make(map[string]int)
	for _, event := range c.events {
		totalTook += event.TookMS
		queryCounts[event.Query]++
		if event.Hits == 0 {
			summary.ZeroHitSearches++
		}
	}
	summary.AvgTookMS = float64(totalTook) / float64(len(c.events))

	popular := make([]model.QueryCount, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.QueryCount{Query: query, Count: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Query < popular[j].Query
	})
	if len(popular) > maxPopularQueries {
		popular = popular[:maxPopularQueries]
	}
	summary.PopularQueries = popular

	seen := make(map[string]struct{})
	for i := len(c.events) - 1; i >= 0 && len(summary.RecentZeroHitQueries) < maxZeroHitQueries; i-- {
		event := c.events[i]
		if event.Hits != 0 {
			continue
		}
		if _, dup := seen[event.Query]; dup {
			continue
		}
		seen[event.Query] = struct{}{}
		summary.RecentZeroHitQueries = append(summary.RecentZeroHitQueries, event.Query)
	}

	return summary
}
