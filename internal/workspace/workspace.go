// Package workspace manages the on-disk artifacts of a book run: the
// outline, one file per chapter, originality reports, and backup copies of
// chapters before a rewrite overwrites them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the output directory for one book.
type Workspace struct {
	root string
}

// New creates (if needed) and opens a book workspace under dir.
func New(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "backups"), 0755); err != nil {
		return nil, fmt.Errorf("create backups dir: %w", err)
	}
	return &Workspace{root: dir}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// OutlinePath returns the outline file path.
func (w *Workspace) OutlinePath() string {
	return filepath.Join(w.root, "outline.txt")
}

// WriteOutline persists the outline artifact.
func (w *Workspace) WriteOutline(text string) error {
	return os.WriteFile(w.OutlinePath(), []byte(text+"\n"), 0644)
}

// ReadOutline loads an existing outline artifact. The error is fatal for a
// resumed run; a missing outline means there is nothing to resume from.
func (w *Workspace) ReadOutline() (string, error) {
	data, err := os.ReadFile(w.OutlinePath())
	if err != nil {
		return "", fmt.Errorf("read outline: %w", err)
	}
	return string(data), nil
}

// ChapterPath returns the file path for a chapter number.
func (w *Workspace) ChapterPath(number int) string {
	return filepath.Join(w.root, fmt.Sprintf("chapter_%02d.txt", number))
}

// WriteChapter persists chapter content with its heading.
func (w *Workspace) WriteChapter(number int, title, content string) error {
	text := fmt.Sprintf("Chapter %d: %s\n\n%s\n", number, title, content)
	return os.WriteFile(w.ChapterPath(number), []byte(text), 0644)
}

// ChapterExists reports whether a chapter file is already on disk. Used by
// resumed runs to skip finished chapters.
func (w *Workspace) ChapterExists(number int) bool {
	_, err := os.Stat(w.ChapterPath(number))
	return err == nil
}

// ReadChapter loads an existing chapter file.
func (w *Workspace) ReadChapter(number int) (string, error) {
	data, err := os.ReadFile(w.ChapterPath(number))
	if err != nil {
		return "", fmt.Errorf("read chapter %d: %w", number, err)
	}
	return string(data), nil
}

// WriteReport persists the originality report for a chapter.
func (w *Workspace) WriteReport(number int, report string) error {
	path := filepath.Join(w.root, fmt.Sprintf("chapter_%02d_report.txt", number))
	return os.WriteFile(path, []byte(report+"\n"), 0644)
}

// BackupChapter archives the current chapter text before a rewrite
// overwrites it. Backups are attempt-numbered and never deleted.
func (w *Workspace) BackupChapter(number, attempt int, content string) error {
	path := filepath.Join(w.root, "backups", fmt.Sprintf("chapter_%02d_attempt_%d.txt", number, attempt))
	if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
		return fmt.Errorf("backup chapter %d: %w", number, err)
	}
	return nil
}

// BackupDir returns the backups directory path.
func (w *Workspace) BackupDir() string {
	return filepath.Join(w.root, "backups")
}
