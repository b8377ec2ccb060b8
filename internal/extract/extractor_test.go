package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasescan/leasescan/internal/common"
)

// fakeStrategy counts calls and returns canned output.
type fakeStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(ctx context.Context, path string) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{Method: f.name}, f.err
	}
	return Result{Text: f.text, Pages: 1, Method: f.name}, nil
}

func TestChain_TextLayerSkipsOCR(t *testing.T) {
	textLayer := &fakeStrategy{name: "pdf-text", text: "Section 1. Base rent is $5,000/month."}
	ocr := &fakeStrategy{name: "pdf-ocr", text: "should never run"}

	chain := NewChainWith(nil, textLayer, ocr)
	res, err := chain.Extract(context.Background(), "lease.pdf")

	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 1, textLayer.calls)
	assert.Equal(t, 0, ocr.calls, "OCR must not run when the text layer succeeds")
}

func TestChain_EmptyTextLayerFallsBackToOCR(t *testing.T) {
	textLayer := &fakeStrategy{name: "pdf-text", text: "   \n\f  "}
	ocr := &fakeStrategy{name: "pdf-ocr", text: "OCR recovered text"}

	chain := NewChainWith(nil, textLayer, ocr)
	res, err := chain.Extract(context.Background(), "scanned.pdf")

	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, "OCR recovered text", res.Text)
	assert.Equal(t, 1, textLayer.calls)
	assert.Equal(t, 1, ocr.calls)
}

func TestChain_AllStrategiesEmptyFailsExplicitly(t *testing.T) {
	textLayer := &fakeStrategy{name: "pdf-text", text: ""}
	ocr := &fakeStrategy{name: "pdf-ocr", err: errors.New("tesseract crashed")}

	chain := NewChainWith(nil, textLayer, ocr)
	_, err := chain.Extract(context.Background(), "blank.pdf")

	require.Error(t, err)
	assert.Equal(t, common.CategoryExtraction, common.CategoryOf(err))
}

// fakeRunner answers external command invocations per binary name.
type fakeRunner struct {
	stdout map[string]string
	fail   map[string]error
	calls  map[string]int
	onExec func(name string, args []string)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		stdout: map[string]string{},
		fail:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls[name]++
	if f.onExec != nil {
		f.onExec(name, args)
	}
	if err := f.fail[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return []byte(f.stdout[name]), nil, nil
}

func TestTextLayerStrategy_CountsPages(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["pdftotext"] = "page one\fpage two\fpage three"

	s := NewTextLayerStrategy("pdftotext", runner)
	res, err := s.Extract(context.Background(), "lease.pdf")

	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "pdf-text", res.Method)
}

func TestOCRStrategy_ConcatenatesPerPageOutput(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["tesseract"] = "OCR PAGE TEXT"
	// pdftoppm writes page images; the fake mimics that side effect
	runner.onExec = func(name string, args []string) {
		if name != "pdftoppm" {
			return
		}
		prefix := args[len(args)-1]
		for i := 1; i <= 2; i++ {
			require.NoError(t, os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644))
		}
	}

	s := NewOCRStrategy("pdftoppm", "tesseract", "eng", "", 300, 0, runner)
	res, err := s.Extract(context.Background(), filepath.Join(t.TempDir(), "scan.pdf"))

	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, runner.calls["tesseract"])
	assert.Contains(t, res.Text, "OCR PAGE TEXT\n\f\nOCR PAGE TEXT")
}

func TestOCRStrategy_NoPagesRendered(t *testing.T) {
	runner := newFakeRunner()

	s := NewOCRStrategy("pdftoppm", "tesseract", "eng", "", 300, 0, runner)
	_, err := s.Extract(context.Background(), "scan.pdf")

	require.Error(t, err)
	assert.Equal(t, 0, runner.calls["tesseract"])
}
