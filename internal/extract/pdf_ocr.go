package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// OCRStrategy rasterizes each page with pdftoppm and reads it with tesseract.
// It is the fallback for image-only PDFs whose text layer is empty.
type OCRStrategy struct {
	Pdftoppm      string // if empty -> "pdftoppm"
	Tesseract     string // if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI, default 300
	MaxPages      int // 0 = no limit

	runner Runner
}

func NewOCRStrategy(pdftoppm, tesseract, lang, tessdataDir string, dpi, maxPages int, runner Runner) *OCRStrategy {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if tesseract == "" {
		tesseract = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	if dpi <= 0 {
		dpi = 300
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &OCRStrategy{
		Pdftoppm:      pdftoppm,
		Tesseract:     tesseract,
		TesseractLang: lang,
		TessdataDir:   tessdataDir,
		DPI:           dpi,
		MaxPages:      maxPages,
		runner:        runner,
	}
}

func (s *OCRStrategy) Name() string { return "pdf-ocr" }

func (s *OCRStrategy) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "ls-ocr-*")
	if err != nil {
		return Result{Method: s.Name()}, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			fmt.Printf("warning: failed to remove temp dir %q: %v\n", tmpDir, rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := s.runner.Run(ctx, s.Pdftoppm, "-r", fmt.Sprintf("%d", s.DPI), "-png", path, prefix)
	if err != nil {
		return Result{Method: s.Name(), Warnings: []string{string(errb)}}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if s.MaxPages > 0 && len(matches) > s.MaxPages {
		matches = matches[:s.MaxPages]
	}
	if len(matches) == 0 {
		return Result{Method: s.Name(), Warnings: []string{"pdftoppm produced no images"}}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, ocrErr := s.tesseractOCR(ctx, img)
		if ocrErr != nil {
			warns = append(warns, ocrErr.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}

	return Result{
		Text:     b.String(),
		Pages:    len(matches),
		Method:   s.Name(),
		Language: s.TesseractLang,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}

func (s *OCRStrategy) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", s.TesseractLang}
	if s.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := s.runner.Run(ctx, s.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
