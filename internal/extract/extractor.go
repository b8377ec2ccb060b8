package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leasescan/leasescan/internal/common"
)

// Config holds binaries and tuning for the default strategy chain.
type Config struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// Chain tries each strategy in order until one yields usable text.
// Later strategies are only attempted once the earlier ones have produced
// nothing, so the OCR path never runs when the text layer is good.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds the default chain: text layer first, OCR fallback second.
func NewChain(cfg Config, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		strategies: []Strategy{
			NewTextLayerStrategy(cfg.Pdftotext, nil),
			NewOCRStrategy(cfg.Pdftoppm, cfg.Tesseract, cfg.TesseractLang, cfg.TessdataDir, cfg.DPI, cfg.MaxPages, nil),
		},
		logger: logger,
	}
}

// NewChainWith builds a chain from explicit strategies (tests, alternate OCR engines).
func NewChainWith(logger *slog.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// Extract runs the chain. A strategy "succeeds" when it returns non-whitespace
// text; errors and empty output both advance to the next strategy. When every
// strategy comes up empty the chain fails with extraction_error so the
// pipeline never sends blank input downstream.
func (c *Chain) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	var warns []string

	for _, s := range c.strategies {
		res, err := s.Extract(ctx, path)
		if err != nil {
			c.logger.Warn("extract.strategy.failed", "strategy", s.Name(), "path", path, "error", err)
			warns = append(warns, res.Warnings...)
			continue
		}
		if strings.TrimSpace(res.Text) == "" {
			c.logger.Info("extract.strategy.empty", "strategy", s.Name(), "path", path, "pages", res.Pages)
			warns = append(warns, res.Warnings...)
			continue
		}
		res.Warnings = append(warns, res.Warnings...)
		res.Duration = time.Since(start)
		c.logger.Info("extract.ok",
			"strategy", s.Name(),
			"path", path,
			"pages", res.Pages,
			"text_bytes", len(res.Text),
			"elapsed_ms", res.Duration.Milliseconds(),
		)
		return res, nil
	}

	return Result{Warnings: warns, Duration: time.Since(start)},
		common.NewAppError(common.CategoryExtraction, "no extractable text in document", nil)
}
