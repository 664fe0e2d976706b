package chapter

import (
	"fmt"
	"regexp"
	"strings"
)

// fillerPatterns match meta-commentary lines the models wrap around chapter
// text: prompt echoes, sign-offs, markdown fences. Matched lines are
// stripped whole; actual prose is never touched.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*here (?:is|'s) chapter\b`),
	regexp.MustCompile(`(?i)^\s*here (?:is|'s) the (?:chapter|continuation|rewritten)\b`),
	regexp.MustCompile(`(?i)^\s*(?:sure|certainly|of course)[,!.]`),
	regexp.MustCompile(`(?i)^\s*as an ai\b`),
	regexp.MustCompile(`(?i)^\s*i hope (?:this|you)\b`),
	regexp.MustCompile(`(?i)^\s*let me know\b`),
	regexp.MustCompile(`(?i)^\s*\[?end of chapter\b`),
	regexp.MustCompile(`(?i)^\s*word count\s*[:(]`),
	regexp.MustCompile("^\\s*```"),
}

// CleanContent strips echoed prompt text and meta-commentary from generated
// chapter text. A leading "Chapter N" heading matching this chapter's number
// is also removed, since the heading is added back when the file is written.
func CleanContent(text string, number int) string {
	heading := regexp.MustCompile(fmt.Sprintf(`(?i)^\s*(?:#+\s*)?(?:\*\*\s*)?chapter\s+%d\b.*$`, number))

	lines := strings.Split(text, "\n")
	out := lines[:0]

lineLoop:
	for i, line := range lines {
		// Only treat the heading as filler near the top of the output.
		if i < 3 && heading.MatchString(line) {
			continue
		}
		for _, p := range fillerPatterns {
			if p.MatchString(line) {
				continue lineLoop
			}
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
