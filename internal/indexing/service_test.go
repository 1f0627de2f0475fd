package indexing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/config"
	"github.com/clinsearch/clinsearch/internal/lexicon"
	"github.com/clinsearch/clinsearch/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(lexicon.Default(), config.DefaultSearchSettings(), 2, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresLexicon(t *testing.T) {
	_, err := NewService(nil, config.DefaultSearchSettings(), 1, zap.NewNop())
	assert.Error(t, err)
}

func TestBuildIndexKeywordCounts(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.BuildIndex(context.Background(), []model.RawRecord{
		{ID: "r1", Text: "aspirin daily; aspirin held"},
	})
	require.NoError(t, err)

	list := build.Inverted.Lookup("aspirin")
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].RecordID)
	assert.Equal(t, 2, list[0].Count)

	rec, ok := build.Records.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 2, rec.KeywordCounts["aspirin"])
	assert.Equal(t, 1, rec.KeywordCounts["daily"])
}

func TestBuildIndexMultiWordTerm(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.BuildIndex(context.Background(), []model.RawRecord{
		{ID: "r1", Text: "74-year-old woman with coronary artery disease"},
	})
	require.NoError(t, err)

	// The full lexicon term is its own index key alongside the word tokens.
	list := build.Inverted.Lookup("coronary artery disease")
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Count)
	assert.Len(t, build.Inverted.Lookup("coronary"), 1)

	rec, ok := build.Records.Get("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"diagnoses"}, rec.Categories)
}

func TestBuildIndexCategoryMembership(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.BuildIndex(context.Background(), []model.RawRecord{
		{ID: "r1", Text: "coronary artery disease"},
		{ID: "r2", Text: "diabetes mellitus"},
		{ID: "r3", Text: "aspirin 81 mg daily for coronary artery disease"},
	})
	require.NoError(t, err)

	// "diabetes mellitus" is a diagnoses term too, so r2 is a member.
	assert.Equal(t, []string{"r1", "r2", "r3"}, build.Categories.RecordIDs("diagnoses"))
	assert.Equal(t, []string{"r3"}, build.Categories.RecordIDs("medications"))
	assert.Nil(t, build.Categories.RecordIDs("vitals"))
}

func TestBuildIndexDuplicateIDsLastWins(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.BuildIndex(context.Background(), []model.RawRecord{
		{ID: "r1", Text: "aspirin aspirin aspirin"},
		{ID: "r1", Text: "warfarin"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, build.Records.Len())
	assert.Nil(t, build.Inverted.Lookup("aspirin"))
	list := build.Inverted.Lookup("warfarin")
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Count)
}

func TestBuildIndexEmptyTextRecord(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.BuildIndex(context.Background(), []model.RawRecord{
		{ID: "r1", Text: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, build.Records.Len())
	assert.Equal(t, 0, build.Inverted.DistinctKeywords())
}

func TestBuildIndexCancelled(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BuildIndex(ctx, []model.RawRecord{{ID: "r1", Text: "aspirin"}})
	assert.Error(t, err)
}

func TestBuildIndexDeterministic(t *testing.T) {
	svc := newTestService(t)
	records := []model.RawRecord{
		{ID: "r1", Text: "chest pain and dyspnea"},
		{ID: "r2", Text: "chest pain resolved"},
		{ID: "r3", Text: "no complaints"},
	}

	first, err := svc.BuildIndex(context.Background(), records)
	require.NoError(t, err)
	second, err := svc.BuildIndex(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first.Inverted.Postings, second.Inverted.Postings)
	assert.Equal(t, first.Categories, second.Categories)
}
