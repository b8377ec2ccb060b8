package risk

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/llm"
)

// Stage runs the risk-analysis pass: ClauseSet in, RiskSet out.
type Stage struct {
	Model  llm.ChatModel
	Logger *slog.Logger
}

func NewStage(model llm.ChatModel, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{Model: model, Logger: logger}
}

// Run serializes the clause set into the rubric prompt and parses the reply
// under the same JSON-recovery contract as the clause stage.
func (s *Stage) Run(ctx context.Context, cs clauses.ClauseSet) (RiskSet, error) {
	start := time.Now()

	clauseJSON, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return RiskSet{}, common.NewAppError(common.CategoryUnexpected, "serialize clause set", err)
	}

	s.Logger.Info("risk.analyze.start", "model", s.Model.ModelName(), "clauses", len(cs.Clauses))

	reply, err := s.Model.Complete(ctx, llm.CompletionRequest{
		System: systemPrompt,
		Prompt: buildPrompt(string(clauseJSON)),
	})
	if err != nil {
		return RiskSet{}, err
	}
	if strings.TrimSpace(reply) == "" {
		return RiskSet{}, common.NewAppError(common.CategoryParse, "empty risk content", nil)
	}

	doc, err := llm.ExtractJSONObject(reply)
	if err != nil {
		s.Logger.Error("risk.analyze.no_json", "reply_bytes", len(reply), "error", err)
		return RiskSet{}, err
	}

	if vErr := llm.ValidateAgainstSchema(llm.BuildRiskSetSchema(), doc); vErr != nil {
		s.Logger.Warn("risk.analyze.schema_mismatch", "error", vErr)
	}

	rs, err := decodeRiskSet(doc)
	if err != nil {
		s.Logger.Error("risk.analyze.decode_error", "error", err)
		return RiskSet{}, common.NewAppError(common.CategoryParse, "malformed JSON", err)
	}

	s.Logger.Info("risk.analyze.ok",
		"risks", len(rs.Risks),
		"deal_score", rs.DealScore,
		"scored", rs.Scored,
		"manual_review_items", len(rs.ManualReviewItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rs, nil
}
