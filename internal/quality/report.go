// Package quality assesses chapter originality and drives the bounded
// rewrite loop.
package quality

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Risk classifications reported by the assessment call.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// Report is the parsed originality assessment for one chapter.
type Report struct {
	// Score is the 1-10 originality rating. Required.
	Score int

	// PlagiarismRisk is LOW, MEDIUM, or HIGH. Defaults to MEDIUM with a log
	// record when the assessment omits it.
	PlagiarismRisk string

	// CopyrightRisk is LOW, MEDIUM, or HIGH. Defaults to LOW with a log
	// record when the assessment omits it.
	CopyrightRisk string

	// Issues is the free-text explanation of problems found.
	Issues string
}

var (
	scoreField = regexp.MustCompile(`(?im)^\s*ORIGINALITY_SCORE\s*[:=]\s*(\d+)`)
	plagField  = regexp.MustCompile(`(?im)^\s*PLAGIARISM_RISK\s*[:=]\s*(LOW|MEDIUM|HIGH)`)
	copyField  = regexp.MustCompile(`(?im)^\s*COPYRIGHT_RISK\s*[:=]\s*(LOW|MEDIUM|HIGH)`)
	issueField = regexp.MustCompile(`(?is)ISSUES_FOUND\s*[:=]\s*(.+)$`)
)

// ParseReport extracts the labeled fields from assessment output. A missing
// or out-of-range score is an error; the gate cannot decide without it.
// Optional fields get documented defaults, logged rather than zero-filled
// silently.
func ParseReport(text string) (Report, error) {
	r := Report{}

	m := scoreField.FindStringSubmatch(text)
	if m == nil {
		return Report{}, fmt.Errorf("assessment missing ORIGINALITY_SCORE field")
	}
	fmt.Sscanf(m[1], "%d", &r.Score)
	if r.Score < 1 || r.Score > 10 {
		return Report{}, fmt.Errorf("originality score %d out of range 1-10", r.Score)
	}

	if m := plagField.FindStringSubmatch(text); m != nil {
		r.PlagiarismRisk = strings.ToUpper(m[1])
	} else {
		r.PlagiarismRisk = RiskMedium
		slog.Warn("assessment missing PLAGIARISM_RISK, defaulting", "default", RiskMedium)
	}

	if m := copyField.FindStringSubmatch(text); m != nil {
		r.CopyrightRisk = strings.ToUpper(m[1])
	} else {
		r.CopyrightRisk = RiskLow
		slog.Warn("assessment missing COPYRIGHT_RISK, defaulting", "default", RiskLow)
	}

	if m := issueField.FindStringSubmatch(text); m != nil {
		r.Issues = strings.TrimSpace(m[1])
	}

	return r, nil
}

// Format renders a report in the on-disk labeled-field form.
func (r Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORIGINALITY_SCORE: %d/10\n", r.Score)
	fmt.Fprintf(&b, "PLAGIARISM_RISK: %s\n", r.PlagiarismRisk)
	fmt.Fprintf(&b, "COPYRIGHT_RISK: %s\n", r.CopyrightRisk)
	fmt.Fprintf(&b, "ISSUES_FOUND: %s", r.Issues)
	return b.String()
}
