package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/extract"
	"github.com/leasescan/leasescan/internal/pipeline"
	"github.com/leasescan/leasescan/internal/report"
	"github.com/leasescan/leasescan/internal/risk"
)

// analyze runs the full two-stage analysis against a local PDF and writes
// report.txt / report.xlsx next to it. No network storage involved; useful
// for prompt iteration without touching the bucket.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "analyze <lease.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		logger.Error("cannot read file", "path", path, "error", err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if cfg.Clause.APIKey == "" || cfg.Risk.APIKey == "" {
		logger.Error("model API keys required (CLAUSE_API_KEY / RISK_API_KEY)")
		os.Exit(2)
	}

	chain := extract.NewChain(extract.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		TessdataDir:   cfg.Extract.TessdataDir,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
	}, logger)

	clauseModel, err := pipeline.NewStageModel(cfg.Clause, logger)
	if err != nil {
		logger.Error("init clause model", "error", err)
		os.Exit(1)
	}
	riskModel, err := pipeline.NewStageModel(cfg.Risk, logger)
	if err != nil {
		logger.Error("init risk model", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()

	extracted, err := chain.Extract(ctx, path)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	clauseSet, err := clauses.NewStage(clauseModel, cfg.Clause.TextLimit, logger).Run(ctx, extracted.Text)
	if err != nil {
		logger.Error("clause extraction failed", "error", err)
		os.Exit(1)
	}

	riskSet, err := risk.NewStage(riskModel, logger).Run(ctx, clauseSet)
	if err != nil {
		logger.Error("risk analysis failed", "error", err)
		os.Exit(1)
	}

	meta := report.Meta{GeneratedAt: time.Now().UTC(), Generator: "leasescan"}
	dir := filepath.Dir(path)

	reportPath := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(reportPath, report.Render(clauseSet, riskSet, meta), 0o644); err != nil {
		logger.Error("write report", "path", reportPath, "error", err)
		os.Exit(1)
	}

	workbookPath := filepath.Join(dir, "report.xlsx")
	if wb, err := report.BuildWorkbook(clauseSet, riskSet, meta); err != nil {
		logger.Warn("build workbook failed", "error", err)
	} else if err := os.WriteFile(workbookPath, wb, 0o644); err != nil {
		logger.Error("write workbook", "path", workbookPath, "error", err)
	}

	logger.Info("analysis OK",
		"report", reportPath,
		"clauses", len(clauseSet.Clauses),
		"risks", len(riskSet.Risks),
		"deal_score", riskSet.DealScore,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
