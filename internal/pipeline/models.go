package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/llm"
	"github.com/leasescan/leasescan/internal/llm/anthropic"
	"github.com/leasescan/leasescan/internal/llm/openai"
)

// NewStageModel builds the ChatModel for one analysis pass from config.
// Each pass picks its provider independently, so the two passes can run on
// different vendors.
func NewStageModel(cfg common.StageConfig, logger *slog.Logger) (llm.ChatModel, error) {
	switch cfg.Provider {
	case "openai", "":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q", cfg.Provider)
	}
}
