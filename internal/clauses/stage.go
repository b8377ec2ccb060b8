package clauses

import (
	"context"
	"log/slog"
	"time"

	"github.com/leasescan/leasescan/constants"
	"github.com/leasescan/leasescan/internal/llm"
)

// Stage runs the clause-extraction pass: document text in, ClauseSet out.
type Stage struct {
	Model     llm.ChatModel
	Logger    *slog.Logger
	TextLimit int // character budget for document text, default 150000
}

func NewStage(model llm.ChatModel, textLimit int, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	if textLimit <= 0 {
		textLimit = 150000
	}
	return &Stage{Model: model, Logger: logger, TextLimit: textLimit}
}

// Run sends the extraction contract to the model, recovers the JSON object
// from the reply, and validates completeness against the required checklist.
// Completeness gaps are advisory: they are logged and recorded on the set,
// never fatal.
func (s *Stage) Run(ctx context.Context, text string) (ClauseSet, error) {
	start := time.Now()

	if len(text) > s.TextLimit {
		s.Logger.Warn("clauses.truncate", "text_len", len(text), "limit", s.TextLimit)
		text = text[:s.TextLimit]
	}

	s.Logger.Info("clauses.extract.start", "model", s.Model.ModelName(), "text_len", len(text))

	reply, err := s.Model.Complete(ctx, llm.CompletionRequest{
		System: systemPrompt,
		Prompt: buildPrompt(text),
	})
	if err != nil {
		return ClauseSet{}, err
	}

	doc, err := llm.ExtractJSONObject(reply)
	if err != nil {
		s.Logger.Error("clauses.extract.no_json", "reply_bytes", len(reply), "error", err)
		return ClauseSet{}, err
	}

	if vErr := llm.ValidateAgainstSchema(llm.BuildClauseSetSchema(), doc); vErr != nil {
		// advisory: the permissive decode below still extracts what it can
		s.Logger.Warn("clauses.extract.schema_mismatch", "error", vErr)
	}

	cs, err := decodeClauseSet(doc)
	if err != nil {
		s.Logger.Error("clauses.extract.decode_error", "error", err)
		return ClauseSet{}, err
	}

	cs.MissingChecklist = missingFromChecklist(cs)
	if len(cs.MissingChecklist) > 0 {
		s.Logger.Warn("clauses.extract.checklist_incomplete", "missing", cs.MissingChecklist)
	}

	s.Logger.Info("clauses.extract.ok",
		"clauses", len(cs.Clauses),
		"confirmed_absent", len(cs.ConfirmedAbsent),
		"trust_score", cs.TrustScore,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cs, nil
}

// missingFromChecklist returns required types present in neither the found
// clauses nor the confirmed-absent list.
func missingFromChecklist(cs ClauseSet) []string {
	seen := make(map[constants.ClauseType]struct{}, len(cs.Clauses)+len(cs.ConfirmedAbsent))
	for _, c := range cs.Clauses {
		seen[c.Type] = struct{}{}
	}
	for _, absent := range cs.ConfirmedAbsent {
		if ct, ok := constants.CanonicalizeClause(absent); ok {
			seen[ct] = struct{}{}
		}
	}

	var missing []string
	for _, required := range constants.RequiredChecklist() {
		if _, ok := seen[required]; !ok {
			missing = append(missing, string(required))
		}
	}
	return missing
}
