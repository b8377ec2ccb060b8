package clauses

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leasescan/leasescan/constants"
)

// ClauseRecord is one extracted lease clause.
type ClauseRecord struct {
	Type         constants.ClauseType `json:"type"`
	Wording      string               `json:"wording"`
	Page         string               `json:"page"`
	Section      string               `json:"section,omitempty"`
	Confidence   float64              `json:"confidence"` // 0..100
	Description  string               `json:"description"`
	ManualReview bool                 `json:"manual_review"`
}

// ClauseSet is the immutable output of the clause-extraction stage.
type ClauseSet struct {
	Clauses         []ClauseRecord `json:"clauses"`
	ConfirmedAbsent []string       `json:"confirmed_absent"`
	TrustScore      float64        `json:"trust_score"` // 0..100

	// MissingChecklist lists required clause types found in neither Clauses
	// nor ConfirmedAbsent. Advisory; populated by the completeness check.
	MissingChecklist []string `json:"-"`
}

// decodeClauseSet parses model JSON into a ClauseSet with explicit defaults
// for every absent field. The model's field set varies, so everything is read
// from a generic map rather than a closed struct.
func decodeClauseSet(doc []byte) (ClauseSet, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return ClauseSet{}, err
	}

	cs := ClauseSet{
		Clauses:         []ClauseRecord{},
		ConfirmedAbsent: []string{},
	}

	if arr, ok := m["clauses"].([]any); ok {
		for _, el := range arr {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			typ, _ := constants.CanonicalizeClause(str(obj, "type"))
			rec := ClauseRecord{
				Type:         typ,
				Wording:      str(obj, "wording"),
				Page:         pageString(obj["page"]),
				Section:      str(obj, "section"),
				Confidence:   num(obj, "confidence"),
				Description:  str(obj, "description"),
				ManualReview: boolean(obj, "manual_review"),
			}
			cs.Clauses = append(cs.Clauses, rec)
		}
	}

	if arr, ok := m["confirmed_absent"].([]any); ok {
		for _, el := range arr {
			if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
				ct, _ := constants.CanonicalizeClause(s)
				cs.ConfirmedAbsent = append(cs.ConfirmedAbsent, string(ct))
			}
		}
	}

	cs.TrustScore = clamp(num(m, "trust_score"), 0, 100)
	return cs, nil
}

// generic-map accessors with defaults

func str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func num(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

func boolean(m map[string]any, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

// pageString accepts page locators as numbers or strings ("12", "12-13").
func pageString(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(t))
	case string:
		return strings.TrimSpace(t)
	default:
		return ""
	}
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
