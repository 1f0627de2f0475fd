package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinsearch/clinsearch/model"
)

func TestEmptyCollector(t *testing.T) {
	c := NewCollector()
	summary := c.Summary()

	assert.Equal(t, 0, summary.TotalSearches)
	assert.Equal(t, 0, summary.ZeroHitSearches)
	assert.Equal(t, float64(0), summary.AvgTookMS)
	assert.Empty(t, summary.PopularQueries)
	assert.Empty(t, summary.RecentZeroHitQueries)
}

func TestSummaryAggregation(t *testing.T) {
	c := NewCollector()
	c.Track("chest pain", 3, 2)
	c.Track("chest pain", 2, 4)
	c.Track("aspirin", 1, 6)
	c.Track("frobnicate", 0, 8)

	summary := c.Summary()

	assert.Equal(t, 4, summary.TotalSearches)
	assert.Equal(t, 1, summary.ZeroHitSearches)
	assert.Equal(t, 5.0, summary.AvgTookMS)
	assert.Equal(t, []model.QueryCount{
		{Query: "chest pain", Count: 2},
		{Query: "aspirin", Count: 1},
		{Query: "frobnicate", Count: 1},
	}, summary.PopularQueries)
	assert.Equal(t, []string{"frobnicate"}, summary.RecentZeroHitQueries)
}

func TestRecentZeroHitQueriesNewestFirstAndDeduplicated(t *testing.T) {
	c := NewCollector()
	c.Track("first miss", 0, 1)
	c.Track("second miss", 0, 1)
	c.Track("second miss", 0, 1)
	c.Track("third miss", 0, 1)

	summary := c.Summary()
	assert.Equal(t, []string{"third miss", "second miss", "first miss"}, summary.RecentZeroHitQueries)
}

func TestEventRingIsBounded(t *testing.T) {
	c := NewCollector()
	for i := 0; i < maxEventsToKeep+50; i++ {
		c.Track("q", 1, 1)
	}
	assert.Equal(t, maxEventsToKeep, c.Summary().TotalSearches)
}
