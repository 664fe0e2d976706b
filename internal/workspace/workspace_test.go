package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "book")

	ws, err := New(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.DirExists(t, ws.BackupDir())
	assert.Equal(t, dir, ws.Root())
}

func TestOutlineRoundTrip(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ws.WriteOutline("Chapter 1: First\nA summary."))

	got, err := ws.ReadOutline()
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1: First\nA summary.\n", got)
}

func TestReadOutlineMissing(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = ws.ReadOutline()
	require.Error(t, err)
}

func TestChapterFiles(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	assert.False(t, ws.ChapterExists(1))

	require.NoError(t, ws.WriteChapter(1, "Getting Started", "The content."))
	assert.True(t, ws.ChapterExists(1))
	assert.False(t, ws.ChapterExists(2))

	got, err := ws.ReadChapter(1)
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1: Getting Started\n\nThe content.\n", got)

	// Two-digit zero padding keeps files in order.
	assert.Equal(t, "chapter_01.txt", filepath.Base(ws.ChapterPath(1)))
	assert.Equal(t, "chapter_12.txt", filepath.Base(ws.ChapterPath(12)))
}

func TestWriteReport(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ws.WriteReport(3, "ORIGINALITY_SCORE: 9/10"))

	data, err := os.ReadFile(filepath.Join(ws.Root(), "chapter_03_report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ORIGINALITY_SCORE: 9/10\n", string(data))
}

func TestBackupChapter(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ws.BackupChapter(2, 1, "first version"))
	require.NoError(t, ws.BackupChapter(2, 2, "second version"))

	first, err := os.ReadFile(filepath.Join(ws.BackupDir(), "chapter_02_attempt_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first version\n", string(first))

	// Earlier backups survive later ones.
	second, err := os.ReadFile(filepath.Join(ws.BackupDir(), "chapter_02_attempt_2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second version\n", string(second))
}
