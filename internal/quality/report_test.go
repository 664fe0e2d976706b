package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	text := `ORIGINALITY_SCORE: 7/10
PLAGIARISM_RISK: LOW
COPYRIGHT_RISK: MEDIUM
ISSUES_FOUND: The opening paragraph closely mirrors common phrasing.
The middle section is fine.`

	r, err := ParseReport(text)
	require.NoError(t, err)

	assert.Equal(t, 7, r.Score)
	assert.Equal(t, RiskLow, r.PlagiarismRisk)
	assert.Equal(t, RiskMedium, r.CopyrightRisk)
	assert.Contains(t, r.Issues, "closely mirrors")
	assert.Contains(t, r.Issues, "middle section")
}

func TestParseReportTolerantFormats(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"equals separator", "ORIGINALITY_SCORE = 9\nPLAGIARISM_RISK = LOW\nCOPYRIGHT_RISK = LOW"},
		{"leading whitespace", "  ORIGINALITY_SCORE: 9\n  PLAGIARISM_RISK: low\n  COPYRIGHT_RISK: Low"},
		{"surrounding prose", "Assessment follows.\nORIGINALITY_SCORE: 9\nPLAGIARISM_RISK: LOW\nCOPYRIGHT_RISK: LOW\nThanks."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseReport(tc.text)
			require.NoError(t, err)
			assert.Equal(t, 9, r.Score)
			assert.Equal(t, RiskLow, r.PlagiarismRisk)
		})
	}
}

func TestParseReportMissingScore(t *testing.T) {
	_, err := ParseReport("PLAGIARISM_RISK: LOW\nCOPYRIGHT_RISK: LOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORIGINALITY_SCORE")
}

func TestParseReportScoreOutOfRange(t *testing.T) {
	_, err := ParseReport("ORIGINALITY_SCORE: 15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = ParseReport("ORIGINALITY_SCORE: 0")
	require.Error(t, err)
}

func TestParseReportDefaultsMissingRisks(t *testing.T) {
	r, err := ParseReport("ORIGINALITY_SCORE: 8")
	require.NoError(t, err)
	assert.Equal(t, RiskMedium, r.PlagiarismRisk)
	assert.Equal(t, RiskLow, r.CopyrightRisk)
	assert.Empty(t, r.Issues)
}

func TestReportFormatRoundTrip(t *testing.T) {
	r := Report{Score: 6, PlagiarismRisk: RiskHigh, CopyrightRisk: RiskLow, Issues: "reused phrasing"}

	parsed, err := ParseReport(r.Format())
	require.NoError(t, err)
	assert.Equal(t, r, parsed)
}
