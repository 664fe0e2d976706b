package chapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanContentStripsFiller(t *testing.T) {
	in := `Here is Chapter 2 as requested:

The bees emerged at dawn, as they always did.

They worked until dusk.

[End of Chapter 2]
Word count: 14
I hope this captures the tone you wanted!`

	got := CleanContent(in, 2)
	assert.Equal(t, "The bees emerged at dawn, as they always did.\n\nThey worked until dusk.", got)
}

func TestCleanContentStripsLeadingHeading(t *testing.T) {
	in := "Chapter 3: The First Season\n\nSpring arrived early that year."
	got := CleanContent(in, 3)
	assert.Equal(t, "Spring arrived early that year.", got)
}

func TestCleanContentKeepsHeadingDeepInText(t *testing.T) {
	// Mentions of the chapter past the top are prose, not a heading echo.
	in := "First line.\nSecond line.\nThird line.\nChapter 3 changed everything for her."
	got := CleanContent(in, 3)
	assert.Contains(t, got, "Chapter 3 changed everything")
}

func TestCleanContentKeepsOtherChapterHeading(t *testing.T) {
	in := "Chapter 5: Wrong Echo\nActual prose."
	got := CleanContent(in, 3)
	assert.Contains(t, got, "Chapter 5: Wrong Echo")
}

func TestCleanContentStripsCodeFences(t *testing.T) {
	in := "```\nReal prose here.\n```"
	assert.Equal(t, "Real prose here.", CleanContent(in, 1))
}

func TestCleanContentPlainProseUntouched(t *testing.T) {
	in := "A paragraph.\n\nAnother paragraph."
	assert.Equal(t, in, CleanContent(in, 1))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 3, CountWords("one two three"))
	assert.Equal(t, 3, CountWords("  one\n two\tthree  "))
}
