package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasescan/leasescan/constants"
	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/risk"
)

func sampleInputs() (clauses.ClauseSet, risk.RiskSet, Meta) {
	cs := clauses.ClauseSet{
		Clauses: []clauses.ClauseRecord{
			{Type: constants.BaseRent, Description: "Fixed $5,000/month", Page: "3", Confidence: 92.5},
			{Type: constants.Termination, Description: "Walk-away at month 18", Page: "7", Confidence: 88},
		},
		ConfirmedAbsent:  []string{"percentage_rent"},
		TrustScore:       87.5,
		MissingChecklist: []string{"co_tenancy"},
	}
	rs := risk.RiskSet{
		Risks: []risk.RiskRecord{
			{Type: "cam_uncapped", Severity: constants.SeverityModerate, Reason: "no CAM cap", Page: "12"},
			{Type: "early_termination", Severity: constants.SeverityHigh, Reason: "tenant option", Page: "7",
				NOIImpact: "$48,000/yr", Calculation: "12 x $4,000"},
		},
		DealScore:          4.5,
		Scored:             true,
		ScoreExplanation:   "start 10, -2 high, -1 moderate",
		ManualReviewItems:  []risk.ReviewItem{{Item: "termination fee", Page: "7", Reason: "confidence 82"}},
		PositiveHighlights: []string{"anchor tenant"},
		InvestorSummary:    "Below-average deal.",
	}
	meta := Meta{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Generator:   "leasescan v1",
	}
	return cs, rs, meta
}

func TestRender_Deterministic(t *testing.T) {
	cs, rs, meta := sampleInputs()
	a := Render(cs, rs, meta)
	b := Render(cs, rs, meta)
	assert.Equal(t, a, b, "identical inputs must render byte-identical reports")
}

func TestRender_SeverityOrderWorstFirst(t *testing.T) {
	cs, rs, meta := sampleInputs()
	out := string(Render(cs, rs, meta))

	high := strings.Index(out, "HIGH:")
	moderate := strings.Index(out, "MODERATE:")
	require.Greater(t, high, 0)
	require.Greater(t, moderate, 0)
	assert.Less(t, high, moderate, "high severity renders before moderate")

	assert.Contains(t, out, "  NOI impact: $48,000/yr")
	assert.Contains(t, out, "  Calculation: 12 x $4,000")
}

func TestRender_AllSectionsPresent(t *testing.T) {
	cs, rs, meta := sampleInputs()
	out := string(Render(cs, rs, meta))

	assert.Contains(t, out, "Generated: 2025-06-01T12:00:00Z")
	assert.Contains(t, out, "Extraction trust score: 87.5")
	assert.Contains(t, out, "- base_rent: Fixed $5,000/month (page 3, confidence 92.5)")
	assert.Contains(t, out, "Confirmed absent: percentage_rent")
	assert.Contains(t, out, "Not accounted for: co_tenancy")
	assert.Contains(t, out, "MANUAL REVIEW")
	assert.Contains(t, out, "- termination fee (page 7): confidence 82")
	assert.Contains(t, out, "POSITIVE HIGHLIGHTS")
	assert.Contains(t, out, "- anchor tenant")
	assert.Contains(t, out, "Below-average deal.")
	assert.Contains(t, out, "4.5/10 (High Risk)")
}

func TestRender_EmptyInputsDegradeGracefully(t *testing.T) {
	meta := Meta{GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	out := string(Render(clauses.ClauseSet{}, risk.RiskSet{}, meta))

	assert.Contains(t, out, "No clauses extracted.")
	assert.Contains(t, out, "No significant risks identified.")
	assert.Contains(t, out, "not scored")
	assert.NotContains(t, out, "MANUAL REVIEW")
	assert.NotContains(t, out, "POSITIVE HIGHLIGHTS")
	assert.Contains(t, out, "Generator: n/a")
}

func TestRender_MissingOptionalFieldsUsePlaceholder(t *testing.T) {
	cs := clauses.ClauseSet{Clauses: []clauses.ClauseRecord{{Type: constants.Maintenance}}}
	out := string(Render(cs, risk.RiskSet{}, Meta{GeneratedAt: time.Now()}))
	assert.Contains(t, out, "- maintenance: n/a (page n/a, confidence 0)")
}

func TestScoreLabel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{10, "Low Risk"},
		{8, "Low Risk"},
		{7.9, "Moderate Risk"},
		{5, "Moderate Risk"},
		{4.9, "High Risk"},
		{1, "High Risk"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ScoreLabel(tc.score), "score %v", tc.score)
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "7.5", formatScore(7.5))
	assert.Equal(t, "95", formatScore(95))
	assert.Equal(t, "0", formatScore(0))
	assert.Equal(t, "87.25", formatScore(87.25))
}
