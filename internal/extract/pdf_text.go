package extract

import (
	"context"
	"strings"
	"time"
)

// TextLayerStrategy reads the PDF's embedded text layer with pdftotext.
type TextLayerStrategy struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	runner    Runner
}

func NewTextLayerStrategy(pdftotext string, runner Runner) *TextLayerStrategy {
	if pdftotext == "" {
		pdftotext = "pdftotext"
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &TextLayerStrategy{Pdftotext: pdftotext, runner: runner}
}

func (s *TextLayerStrategy) Name() string { return "pdf-text" }

func (s *TextLayerStrategy) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := s.runner.Run(ctx, s.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{Method: s.Name(), Warnings: []string{string(errb)}}, err
	}

	text := string(out)
	// pdftotext emits a form-feed per page boundary
	pages := 1 + strings.Count(text, "\f")
	return Result{
		Text:     text,
		Pages:    pages,
		Method:   s.Name(),
		Duration: time.Since(start),
	}, nil
}
