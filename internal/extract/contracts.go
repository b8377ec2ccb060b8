package extract

import (
	"context"
	"time"
)

// Result is the output of one extraction attempt: per-page text joined with
// form-feed separators.
type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

// Strategy is one way of turning a PDF on disk into text. Strategies are
// tried in order until one yields usable (non-whitespace) text.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (Result, error)
}

// TextExtractor is Stage 1 of the pipeline: PDF file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}
