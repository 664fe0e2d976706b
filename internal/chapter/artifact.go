// Package chapter generates chapter content as an explicit state machine:
// Draft, then Underlength continuation, then Complete.
package chapter

import "strings"

// State names for logging.
const (
	StateDraft       = "draft"
	StateUnderlength = "underlength"
	StateComplete    = "complete"
)

// Artifact is the unit of output for one chapter. Transitions take and
// return artifact values; nothing mutates a finished artifact in place.
type Artifact struct {
	Number           int
	Title            string
	Content          string
	WordCount        int
	OriginalityScore int
	RewriteAttempts  int

	// Degraded-outcome flags. These are reported, never silently dropped:
	// a chapter that ends short or still flagged says so in its metadata.
	BelowMinimum bool
	StillFlagged bool
}

// CountWords counts whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
