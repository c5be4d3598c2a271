package ranking

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVectors_SharedVocabularyAndWeights(t *testing.T) {
	space, err := BuildVectors("python developer", []string{"python engineer", "java developer python"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"developer", "developer python", "engineer", "java",
		"java developer", "python", "python developer", "python engineer",
	}, space.Vocabulary)
	assert.Equal(t, 8, space.Dimension())

	// python appears in all three documents: ln(4/4)+1.
	assert.InDelta(t, 1.0, space.IDF[5], 1e-9)
	// developer appears in two: ln(4/3)+1.
	assert.InDelta(t, math.Log(4.0/3.0)+1, space.IDF[0], 1e-9)
	// Terms in one document: ln(4/2)+1.
	assert.InDelta(t, math.Log(2)+1, space.IDF[2], 1e-9)

	assert.InDelta(t, 0.547832, space.Query[0], 1e-6)
	assert.InDelta(t, 0.425441, space.Query[5], 1e-6)
	assert.InDelta(t, 0.720333, space.Query[6], 1e-6)
	assert.Equal(t, 0.0, space.Query[2])

	require.Len(t, space.Candidates, 2)
	assert.InDelta(t, 0.652491, space.Candidates[0][2], 1e-6)
	assert.InDelta(t, 0.298032, space.Candidates[1][5], 1e-6)
}

func TestBuildVectors_VectorsAreUnitLength(t *testing.T) {
	space, err := BuildVectors("Senior data engineer, Spark and SQL", []string{
		"SQL SQL SQL analyst",
		"Spark streaming engineer",
		"",
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, space.Query.Norm(), 1e-9)
	assert.InDelta(t, 1.0, space.Candidates[0].Norm(), 1e-9)
	assert.InDelta(t, 1.0, space.Candidates[1].Norm(), 1e-9)
	assert.True(t, space.Candidates[2].IsZero())

	for _, vec := range append([]Vector{space.Query}, space.Candidates...) {
		assert.Len(t, vec, space.Dimension())
		for _, w := range vec {
			assert.GreaterOrEqual(t, w, 0.0)
		}
	}
}

func TestBuildVectors_TermCountsRaiseWeight(t *testing.T) {
	space, err := BuildVectors("sql", []string{"sql sql analyst", "sql analyst"})
	require.NoError(t, err)

	sqlDim := indexOf(space.Vocabulary, "sql")
	require.GreaterOrEqual(t, sqlDim, 0)
	assert.Greater(t, space.Candidates[0][sqlDim], space.Candidates[1][sqlDim])
}

func TestBuildVectorsWithLimit_KeepsMostFrequentTerms(t *testing.T) {
	space, err := BuildVectorsWithLimit("alpha alpha alpha beta", []string{"beta gamma", "delta"}, 3)
	require.NoError(t, err)

	// alpha=3, then "alpha alpha" and beta tie at 2 and win on lexicographic order.
	assert.Equal(t, []string{"alpha", "alpha alpha", "beta"}, space.Vocabulary)
	assert.True(t, space.Candidates[1].IsZero())
}

func TestBuildVectors_DefaultCap(t *testing.T) {
	words := make([]string, 0, 1200)
	for i := 0; i < 1200; i++ {
		words = append(words, fmt.Sprintf("term%04d", i))
	}

	space, err := BuildVectors(strings.Join(words, " "), []string{"term0001"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxFeatures, space.Dimension())

	unlimited, err := BuildVectorsWithLimit(strings.Join(words, " "), []string{"term0001"}, -1)
	require.NoError(t, err)
	// 1200 unigrams plus 1199 bigrams.
	assert.Equal(t, 2399, unlimited.Dimension())
}

func TestBuildVectors_EmptyVocabulary(t *testing.T) {
	_, err := BuildVectors("the and", []string{"", "of ..."})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyVocabulary))
	assert.True(t, IsInvalidInput(err))
}

func TestBuildVectors_SymbolTermsSurvive(t *testing.T) {
	space, err := BuildVectors("C++ and C# developer", []string{"c++"})
	require.NoError(t, err)
	assert.Contains(t, space.Vocabulary, "c++")
	assert.Contains(t, space.Vocabulary, "c#")
	assert.Contains(t, space.Vocabulary, "c++ c#")
}

func indexOf(terms []string, term string) int {
	for i, t := range terms {
		if t == term {
			return i
		}
	}
	return -1
}
