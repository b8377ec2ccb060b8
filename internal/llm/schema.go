package llm

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schemas for the two model contracts. Deliberately permissive: the upstream
// field set varies across model versions, so only the envelope shape and the
// types of known fields are constrained, and unknown fields pass through.
// Validation results are advisory (logged, never fatal) except for the
// top-level type checks.

// BuildClauseSetSchema describes the clause-extraction contract.
func BuildClauseSetSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clauses": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type":          map[string]any{"type": "string"},
						"wording":       map[string]any{"type": "string"},
						"page":          map[string]any{"type": []any{"integer", "string"}},
						"section":       map[string]any{"type": "string"},
						"confidence":    map[string]any{"type": "number", "minimum": 0, "maximum": 100},
						"description":   map[string]any{"type": "string"},
						"manual_review": map[string]any{"type": "boolean"},
					},
				},
			},
			"confirmed_absent": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"trust_score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		},
		"required": []any{"clauses"},
	}
}

// BuildRiskSetSchema describes the risk-analysis contract.
func BuildRiskSetSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"risks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type":          map[string]any{"type": "string"},
						"noi_impact":    map[string]any{"type": []any{"string", "number"}},
						"calculation":   map[string]any{"type": "string"},
						"severity":      map[string]any{"type": "string"},
						"reason":        map[string]any{"type": "string"},
						"manual_review": map[string]any{"type": "boolean"},
						"page":          map[string]any{"type": []any{"integer", "string"}},
					},
				},
			},
			"category_impacts":    map[string]any{"type": "object"},
			"deal_score":          map[string]any{"type": []any{"number", "string"}},
			"score_explanation":   map[string]any{"type": "string"},
			"manual_review_items": map[string]any{"type": "array"},
			"positive_highlights": map[string]any{"type": "array"},
			"investor_summary":    map[string]any{"type": "string"},
		},
		"required": []any{"risks"},
	}
}

// ValidateAgainstSchema checks a decoded JSON document against a schema map.
func ValidateAgainstSchema(schema map[string]any, doc []byte) error {
	ss, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	compiled, err := jsonschema.CompileString("schema.json", string(ss))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return compiled.Validate(v)
}
