package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestKeywords(t *testing.T) {
	titles := []string{
		"The Complete Beekeeping Guide for Beginners",
		"Beekeeping for Beginners: Your First Hive",
		"Urban Beekeeping",
	}

	kws := SuggestKeywords(titles, 3)
	require.NotEmpty(t, kws)

	// Most frequent meaningful word first.
	assert.Equal(t, "beekeeping", kws[0].Word)
	assert.Equal(t, 3, kws[0].Count)

	for _, kw := range kws {
		assert.NotContains(t, []string{"the", "for", "guide", "complete"}, kw.Word)
	}
}

func TestSuggestKeywordsLimit(t *testing.T) {
	titles := []string{"alpha bravo charlie delta echo"}
	kws := SuggestKeywords(titles, 2)
	assert.Len(t, kws, 2)
}

func TestSuggestKeywordsShortWordsDropped(t *testing.T) {
	kws := SuggestKeywords([]string{"go up at it beekeeping"}, 10)
	require.Len(t, kws, 1)
	assert.Equal(t, "beekeeping", kws[0].Word)
}

func TestSuggestKeywordsEmpty(t *testing.T) {
	assert.Empty(t, SuggestKeywords(nil, 5))
}
