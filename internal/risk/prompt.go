package risk

import "strings"

const systemPrompt = "You are a commercial real estate risk analyst. Return ONLY a single JSON object matching the requested shape. No markdown, no explanation."

// buildPrompt carries the full scoring rubric plus the serialized clause set.
func buildPrompt(clauseJSON string) string {
	var b strings.Builder

	b.WriteString(`Analyze the lease clauses below for investment risk.

Rubric:
1. Infer the property type from clause content and bias risk categories accordingly:
   retail -> co-tenancy and percentage rent; industrial -> environmental and
   maintenance; office -> CAM caps and occupancy.
2. Quantify NOI impact per risk in currency per year with the calculation shown
   when the clause data permits; otherwise give a qualitative severity.
3. Severity thresholds: high when impact exceeds 25% of NOI, moderate for
   10-25%, low under 10%.
4. Flag any clause with confidence below 90, or with ambiguous or missing
   data, for manual review with its page and the reason.
5. Deal-impact score: start at 10; subtract 2 per high risk, 1 per moderate,
   0.5 per low, 0.5 per manual-review flag; never go below 1.
6. Also report: category impact totals, financial structure flags (rent gaps,
   missing CAM terms, lease type), security measures, time-based risks,
   market comparison notes, positive highlights, and an investor summary of at
   most 150 words.

Return a single JSON object:
{
  "risks": [ { "type": "...", "noi_impact": "$12,000/year", "calculation": "...", "severity": "high|moderate|low", "reason": "...", "manual_review": false, "page": "..." } ],
  "category_impacts": { "co_tenancy": "$12,000/year" },
  "deal_score": 1-10,
  "score_explanation": "...",
  "manual_review_items": [ { "item": "...", "page": "...", "reason": "..." } ],
  "positive_highlights": [ "..." ],
  "investor_summary": "..."
}

Extracted clauses:
`)
	b.WriteString(clauseJSON)
	b.WriteString("\n")
	return b.String()
}
