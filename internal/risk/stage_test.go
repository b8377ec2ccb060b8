package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasescan/leasescan/constants"
	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/llm"
)

type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return f.reply, f.err
}

func (f *fakeModel) ModelName() string { return "fake/fake" }

func run(t *testing.T, reply string) (RiskSet, error) {
	t.Helper()
	stage := NewStage(&fakeModel{reply: reply}, nil)
	return stage.Run(context.Background(), clauses.ClauseSet{})
}

func TestStage_Run_DecodesRiskSet(t *testing.T) {
	rs, err := run(t, "```json\n"+`{
  "risks": [
    {"type": "early_termination", "noi_impact": "$48,000/yr", "calculation": "12 x $4,000", "severity": "HIGH", "reason": "tenant walk-away at month 18", "manual_review": true, "page": 7},
    {"type": "cam_uncapped", "severity": "moderate", "reason": "no CAM cap", "page": "12"}
  ],
  "category_impacts": {"termination": "$48,000/yr", "cam": "unbounded"},
  "deal_score": 4.5,
  "score_explanation": "start 10, -2 high, -1 moderate...",
  "manual_review_items": [{"item": "termination fee", "page": "7", "reason": "confidence 82"}, "verify CAM history"],
  "positive_highlights": ["long-term anchor tenant"],
  "investor_summary": "Below-average deal with termination exposure."
}`+"\n```")
	require.NoError(t, err)

	require.Len(t, rs.Risks, 2)
	assert.Equal(t, constants.SeverityHigh, rs.Risks[0].Severity)
	assert.Equal(t, "7", rs.Risks[0].Page)
	assert.Equal(t, constants.SeverityModerate, rs.Risks[1].Severity)

	assert.True(t, rs.Scored)
	assert.InDelta(t, 4.5, rs.DealScore, 1e-9)

	require.Len(t, rs.ManualReviewItems, 2)
	assert.Equal(t, "termination fee", rs.ManualReviewItems[0].Item)
	assert.Equal(t, "verify CAM history", rs.ManualReviewItems[1].Item)
	assert.Empty(t, rs.ManualReviewItems[1].Page)

	assert.Equal(t, []string{"long-term anchor tenant"}, rs.PositiveHighlights)
	assert.Equal(t, "unbounded", rs.CategoryImpacts["cam"])
}

func TestStage_Run_ScoreClampedToFloor(t *testing.T) {
	rs, err := run(t, `{"risks": [], "deal_score": -3, "investor_summary": "x"}`)
	require.NoError(t, err)
	assert.True(t, rs.Scored)
	assert.InDelta(t, 1, rs.DealScore, 1e-9)

	rs, err = run(t, `{"risks": [], "deal_score": 42}`)
	require.NoError(t, err)
	assert.InDelta(t, 10, rs.DealScore, 1e-9)
}

func TestStage_Run_MissingScoreLeavesUnscored(t *testing.T) {
	rs, err := run(t, `{"risks": [], "investor_summary": "no score given"}`)
	require.NoError(t, err)
	assert.False(t, rs.Scored)
	assert.Zero(t, rs.DealScore)

	rs, err = run(t, `{"risks": [], "deal_score": "n/a"}`)
	require.NoError(t, err)
	assert.False(t, rs.Scored)
}

func TestStage_Run_StringScoreAccepted(t *testing.T) {
	rs, err := run(t, `{"risks": [], "deal_score": "7.5"}`)
	require.NoError(t, err)
	assert.True(t, rs.Scored)
	assert.InDelta(t, 7.5, rs.DealScore, 1e-9)
}

func TestStage_Run_EmptyReply(t *testing.T) {
	_, err := run(t, "   \n ")
	require.Error(t, err)
	assert.Equal(t, common.CategoryParse, common.CategoryOf(err))
	assert.Equal(t, "empty risk content", common.MessageOf(err))
}

func TestStage_Run_ProseOnlyReply(t *testing.T) {
	_, err := run(t, "The lease looks fine overall, no structured output provided.")
	require.Error(t, err)
	assert.Equal(t, common.CategoryParse, common.CategoryOf(err))
}

func TestRiskSet_BySeverity(t *testing.T) {
	rs := RiskSet{Risks: []RiskRecord{
		{Type: "a", Severity: constants.SeverityLow},
		{Type: "b", Severity: constants.SeverityHigh},
		{Type: "c", Severity: constants.SeverityHigh},
	}}

	buckets := rs.BySeverity()
	assert.Len(t, buckets[constants.SeverityHigh], 2)
	assert.Len(t, buckets[constants.SeverityLow], 1)
	assert.Empty(t, buckets[constants.SeverityModerate])
}
