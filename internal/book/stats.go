package book

import "time"

// RunStatistics are accumulated over a run and reported at the end. Every
// deviation from the nominal targets shows up here; nothing is silently
// downgraded.
type RunStatistics struct {
	RunID             string
	ChaptersTotal     int
	ChaptersGenerated int
	ChaptersSkipped   int
	TotalWords        int
	APICalls          int64
	BelowMinimum      []int
	StillFlagged      []int
	SimilarityMatches []int
	Elapsed           time.Duration
}
