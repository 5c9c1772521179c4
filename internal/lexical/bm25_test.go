package lexical_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrama-dev/hybridcore/internal/lexical"
)

func TestAddDocumentDuplicateIDFails(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"foo", "bar"}, lexical.KindMixed))
	err := ix.AddDocument(1, []string{"baz"}, lexical.KindMixed)
	require.Error(t, err)
}

func TestSearchRanksByBM25Score(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"parse", "token", "stream"}, lexical.KindFunction))
	require.NoError(t, ix.AddDocument(2, []string{"parse", "parse", "parse", "token"}, lexical.KindFunction))
	require.NoError(t, ix.AddDocument(3, []string{"unrelated", "words", "only"}, lexical.KindMixed))

	results, err := ix.Search(context.Background(), []string{"parse", "token"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, uint32(2), results[0].DocID, "doc 2 repeats 'parse' and should score higher")
}

func TestSearchContentKindWeighting(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"widget"}, lexical.KindFunction))
	require.NoError(t, ix.AddDocument(2, []string{"widget"}, lexical.KindComment))

	results, err := ix.Search(context.Background(), []string{"widget"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, uint32(1), results[0].DocID, "function kind (3.0x) outweighs comment kind (1.0x)")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTieBreaksByAscendingDocID(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(5, []string{"same"}, lexical.KindMixed))
	require.NoError(t, ix.AddDocument(2, []string{"same"}, lexical.KindMixed))

	results, err := ix.Search(context.Background(), []string{"same"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, uint32(2), results[0].DocID)
	assert.Equal(t, uint32(5), results[1].DocID)
}

func TestSearchUnknownTermReturnsEmpty(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"foo"}, lexical.KindMixed))

	results, err := ix.Search(context.Background(), []string{"nonexistent"}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRespectsK(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	for i := uint32(1); i <= 5; i++ {
		require.NoError(t, ix.AddDocument(i, []string{"common"}, lexical.KindMixed))
	}
	results, err := ix.Search(context.Background(), []string{"common"}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchInvalidK(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	_, err := ix.Search(context.Background(), []string{"foo"}, 0)
	require.Error(t, err)
}

func TestDocumentFrequencyAndStats(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"a", "b"}, lexical.KindMixed))
	require.NoError(t, ix.AddDocument(2, []string{"a", "c"}, lexical.KindMixed))

	assert.Equal(t, 2, ix.DocumentFrequency("a"))
	assert.Equal(t, 1, ix.DocumentFrequency("b"))
	assert.Equal(t, 0, ix.DocumentFrequency("missing"))

	stats := ix.Stats()
	assert.Equal(t, 2, stats.DocCount)
	assert.Equal(t, 3, stats.TermCount)
	assert.Equal(t, 2.0, stats.AvgDocLen)
}

func TestClearResetsIndex(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"a"}, lexical.KindMixed))
	ix.Clear()
	assert.Equal(t, 0, ix.Stats().DocCount)
	require.NoError(t, ix.AddDocument(1, []string{"a"}, lexical.KindMixed))
}

func TestSearchTermInEveryDocumentStillScoresPositive(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	for i := uint32(1); i <= 10; i++ {
		require.NoError(t, ix.AddDocument(i, []string{"common", "filler"}, lexical.KindMixed))
	}

	results, err := ix.Search(context.Background(), []string{"common"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 10, "a term present in every document must still match all of them")
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0, "score must be positive when the query term occurs, regardless of document frequency")
	}
}

func TestSearchDeadlineExceededReturnsPartial(t *testing.T) {
	ix := lexical.New(lexical.DefaultConfig())
	require.NoError(t, ix.AddDocument(1, []string{"a"}, lexical.KindMixed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ix.Search(ctx, []string{"a"}, 10)
	require.Error(t, err)
}
