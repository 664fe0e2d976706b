// Package outline builds and parses the structured chapter plan that drives
// chapter generation.
package outline

import (
	"fmt"
	"regexp"
	"strings"
)

// ChapterSpec describes one planned chapter. Parsed once from an outline
// artifact; immutable thereafter.
type ChapterSpec struct {
	Number   int
	Title    string
	Summary  string
	MinWords int
	MaxWords int
}

// Outline is the ordered chapter plan plus free-text front matter.
type Outline struct {
	FrontMatter string
	Chapters    []ChapterSpec
}

// chapterHeader matches "Chapter N: Title" lines, tolerating markdown
// decoration and alternate separators the models occasionally emit.
var chapterHeader = regexp.MustCompile(`(?i)^\s*(?:#+\s*)?(?:\*\*\s*)?chapter\s+(\d+)\s*[:.\-–]\s*(.+?)\s*(?:\*\*)?\s*$`)

// Parse reads an outline from its on-disk form: optional free-text front
// matter, then "Chapter N: Title" header lines each followed by an optional
// free-text summary.
func Parse(text string) (*Outline, error) {
	lines := strings.Split(text, "\n")

	var (
		front    []string
		chapters []ChapterSpec
		summary  []string
	)

	flushSummary := func() {
		if len(chapters) == 0 {
			return
		}
		chapters[len(chapters)-1].Summary = strings.TrimSpace(strings.Join(summary, "\n"))
		summary = nil
	}

	for _, line := range lines {
		if m := chapterHeader.FindStringSubmatch(line); m != nil {
			flushSummary()
			chapters = append(chapters, ChapterSpec{
				Number: len(chapters) + 1,
				Title:  strings.TrimSpace(m[2]),
			})
			continue
		}

		if len(chapters) == 0 {
			front = append(front, line)
		} else {
			summary = append(summary, line)
		}
	}
	flushSummary()

	if len(chapters) == 0 {
		return nil, fmt.Errorf("no chapter headers found in outline")
	}

	return &Outline{
		FrontMatter: strings.TrimSpace(strings.Join(front, "\n")),
		Chapters:    chapters,
	}, nil
}

// Format renders the outline back to its on-disk form.
func Format(o *Outline) string {
	var b strings.Builder

	if o.FrontMatter != "" {
		b.WriteString(o.FrontMatter)
		b.WriteString("\n\n")
	}

	for i, ch := range o.Chapters {
		fmt.Fprintf(&b, "Chapter %d: %s\n", ch.Number, ch.Title)
		if ch.Summary != "" {
			b.WriteString(ch.Summary)
			b.WriteString("\n")
		}
		if i < len(o.Chapters)-1 {
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Sanitize normalizes raw model output into outline form: conversational
// filler is dropped, and chapter headers are renumbered strictly 1..K in
// first-seen order regardless of the numbers the model emitted. Summary text
// under each header is preserved.
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")

	var (
		out  []string
		seen int
	)

	for _, line := range lines {
		if m := chapterHeader.FindStringSubmatch(line); m != nil {
			seen++
			out = append(out, fmt.Sprintf("Chapter %d: %s", seen, strings.TrimSpace(m[2])))
			continue
		}

		if isMetaLine(line) {
			continue
		}
		out = append(out, line)
	}

	// Trim leading and trailing blank lines left behind by stripped filler.
	for len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// metaPrefixes are conversational or markup lines the models append around
// outlines; none of them belong in the artifact.
var metaPrefixes = []string{
	"here is",
	"here's",
	"sure,",
	"sure!",
	"of course",
	"certainly",
	"below is",
	"i hope",
	"let me know",
	"note:",
	"```",
	"---",
	"total chapters",
	"word count",
}

func isMetaLine(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	if trimmed == "" {
		return false
	}
	for _, p := range metaPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
