package risk

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leasescan/leasescan/constants"
)

// RiskRecord is one flagged lease risk.
type RiskRecord struct {
	Type         string             `json:"type"`
	NOIImpact    string             `json:"noi_impact,omitempty"`  // currency/year, optional
	Calculation  string             `json:"calculation,omitempty"` // shown work, optional
	Severity     constants.Severity `json:"severity"`
	Reason       string             `json:"reason"`
	ManualReview bool               `json:"manual_review"`
	Page         string             `json:"page"`
}

// ReviewItem is one clause flagged for human follow-up.
type ReviewItem struct {
	Item   string `json:"item"`
	Page   string `json:"page"`
	Reason string `json:"reason"`
}

// RiskSet is the immutable output of the risk-analysis stage.
type RiskSet struct {
	Risks              []RiskRecord      `json:"risks"`
	CategoryImpacts    map[string]string `json:"category_impacts"`
	DealScore          float64           `json:"deal_score"` // 1..10 when scored
	Scored             bool              `json:"scored"`     // false when the model omitted the score
	ScoreExplanation   string            `json:"score_explanation"`
	ManualReviewItems  []ReviewItem      `json:"manual_review_items"`
	PositiveHighlights []string          `json:"positive_highlights"`
	InvestorSummary    string            `json:"investor_summary"`
}

// BySeverity buckets risks for rendering, worst first.
func (rs RiskSet) BySeverity() map[constants.Severity][]RiskRecord {
	out := make(map[constants.Severity][]RiskRecord, 3)
	for _, r := range rs.Risks {
		out[r.Severity] = append(out[r.Severity], r)
	}
	return out
}

// decodeRiskSet parses model JSON into a RiskSet with explicit defaults.
// The deal score is clamped to [1,10]; an absent or non-numeric score leaves
// Scored=false so the report can say "not scored" instead of inventing one.
func decodeRiskSet(doc []byte) (RiskSet, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return RiskSet{}, err
	}

	rs := RiskSet{
		Risks:              []RiskRecord{},
		CategoryImpacts:    map[string]string{},
		ManualReviewItems:  []ReviewItem{},
		PositiveHighlights: []string{},
	}

	if arr, ok := m["risks"].([]any); ok {
		for _, el := range arr {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			sev, _ := constants.ParseSeverity(str(obj, "severity"))
			rs.Risks = append(rs.Risks, RiskRecord{
				Type:         str(obj, "type"),
				NOIImpact:    anyToString(obj["noi_impact"]),
				Calculation:  str(obj, "calculation"),
				Severity:     sev,
				Reason:       str(obj, "reason"),
				ManualReview: boolean(obj, "manual_review"),
				Page:         anyToString(obj["page"]),
			})
		}
	}

	if impacts, ok := m["category_impacts"].(map[string]any); ok {
		for k, v := range impacts {
			rs.CategoryImpacts[k] = anyToString(v)
		}
	}

	if score, ok := numericScore(m["deal_score"]); ok {
		rs.DealScore = clamp(score, 1, 10)
		rs.Scored = true
	}

	rs.ScoreExplanation = str(m, "score_explanation")
	rs.InvestorSummary = str(m, "investor_summary")

	if arr, ok := m["manual_review_items"].([]any); ok {
		for _, el := range arr {
			switch t := el.(type) {
			case map[string]any:
				rs.ManualReviewItems = append(rs.ManualReviewItems, ReviewItem{
					Item:   str(t, "item"),
					Page:   anyToString(t["page"]),
					Reason: str(t, "reason"),
				})
			case string:
				rs.ManualReviewItems = append(rs.ManualReviewItems, ReviewItem{Item: strings.TrimSpace(t)})
			}
		}
	}

	if arr, ok := m["positive_highlights"].([]any); ok {
		for _, el := range arr {
			if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
				rs.PositiveHighlights = append(rs.PositiveHighlights, strings.TrimSpace(s))
			}
		}
	}

	return rs, nil
}

func str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func boolean(m map[string]any, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	default:
		return ""
	}
}

func numericScore(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
