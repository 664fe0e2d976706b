package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := `A practical introduction for new beekeepers.

Chapter 1: Getting Started
Covers equipment, costs, and picking a first hive location.

Chapter 2: The First Season
Month-by-month guidance from installation to winter prep.`

	o, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "A practical introduction for new beekeepers.", o.FrontMatter)
	require.Len(t, o.Chapters, 2)
	assert.Equal(t, 1, o.Chapters[0].Number)
	assert.Equal(t, "Getting Started", o.Chapters[0].Title)
	assert.Equal(t, "Covers equipment, costs, and picking a first hive location.", o.Chapters[0].Summary)
	assert.Equal(t, 2, o.Chapters[1].Number)
	assert.Equal(t, "The First Season", o.Chapters[1].Title)
}

func TestParseToleratesDecoration(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		title string
	}{
		{"plain", "Chapter 1: Bees", "Bees"},
		{"markdown heading", "## Chapter 1: Bees", "Bees"},
		{"bold", "**Chapter 1: Bees**", "Bees"},
		{"lowercase", "chapter 1: bees", "bees"},
		{"period separator", "Chapter 1. Bees", "Bees"},
		{"dash separator", "Chapter 1 - Bees", "Bees"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := Parse(tc.line)
			require.NoError(t, err)
			require.Len(t, o.Chapters, 1)
			assert.Equal(t, tc.title, o.Chapters[0].Title)
		})
	}
}

func TestParseNoHeaders(t *testing.T) {
	_, err := Parse("just some prose with no structure at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chapter headers")
}

func TestParseNumbersAreOrdinal(t *testing.T) {
	// Whatever numbers the text carries, parsed chapters are numbered by
	// position.
	text := "Chapter 7: First\n\nChapter 2: Second"
	o, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, o.Chapters, 2)
	assert.Equal(t, 1, o.Chapters[0].Number)
	assert.Equal(t, 2, o.Chapters[1].Number)
}

func TestFormatRoundTrip(t *testing.T) {
	o := &Outline{
		FrontMatter: "An overview.",
		Chapters: []ChapterSpec{
			{Number: 1, Title: "First", Summary: "About the first thing."},
			{Number: 2, Title: "Second", Summary: "About the second thing."},
		},
	}

	parsed, err := Parse(Format(o))
	require.NoError(t, err)

	assert.Equal(t, o.FrontMatter, parsed.FrontMatter)
	require.Len(t, parsed.Chapters, 2)
	for i := range o.Chapters {
		assert.Equal(t, o.Chapters[i].Number, parsed.Chapters[i].Number)
		assert.Equal(t, o.Chapters[i].Title, parsed.Chapters[i].Title)
		assert.Equal(t, o.Chapters[i].Summary, parsed.Chapters[i].Summary)
	}
}

func TestSanitizeRenumbers(t *testing.T) {
	in := "Chapter 3: Foo\nChapter 1: Bar\nChapter 1: Bar"
	want := "Chapter 1: Foo\nChapter 2: Bar\nChapter 3: Bar"
	assert.Equal(t, want, Sanitize(in))
}

func TestSanitizeStripsFiller(t *testing.T) {
	in := `Sure! Here is the outline you asked for:

Chapter 1: Bees
All about bees.

Chapter 2: Hives
All about hives.

Total chapters: 2
Let me know if you'd like any changes!`

	got := Sanitize(in)
	assert.NotContains(t, got, "Sure!")
	assert.NotContains(t, got, "Total chapters")
	assert.NotContains(t, got, "Let me know")
	assert.Contains(t, got, "Chapter 1: Bees")
	assert.Contains(t, got, "All about hives.")
}

func TestSanitizeStripsCodeFences(t *testing.T) {
	in := "```\nChapter 1: Bees\n```"
	assert.Equal(t, "Chapter 1: Bees", Sanitize(in))
}

func TestSanitizePreservesSummaries(t *testing.T) {
	in := "Chapter 5: Only One\nThe summary stays put."
	assert.Equal(t, "Chapter 1: Only One\nThe summary stays put.", Sanitize(in))
}
