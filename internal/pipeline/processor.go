package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/leasescan/leasescan/constants"
	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/extract"
	"github.com/leasescan/leasescan/internal/repository"
	"github.com/leasescan/leasescan/internal/report"
	"github.com/leasescan/leasescan/internal/risk"
	"github.com/leasescan/leasescan/internal/storage"
)

// Fetcher downloads the source document to a transient path.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string) error
}

// ClauseStage is the first analysis pass.
type ClauseStage interface {
	Run(ctx context.Context, text string) (clauses.ClauseSet, error)
}

// RiskStage is the second analysis pass.
type RiskStage interface {
	Run(ctx context.Context, cs clauses.ClauseSet) (risk.RiskSet, error)
}

// ReportCache is the optional idempotency layer.
type ReportCache interface {
	Lookup(ctx context.Context, fileURL string) (string, bool)
	Store(ctx context.Context, fileURL, reportKey string)
}

// Config holds orchestration settings.
type Config struct {
	WorkDir       string
	Generator     string // generator tag stamped into the report
	PresignExpiry time.Duration
	UploadTimeout time.Duration
}

// Result is the caller-facing success payload.
type Result struct {
	WorkItemID string
	ReportURL  string
	Cached     bool
}

// Processor sequences the pipeline per work item: fetch, extract, clause
// pass, risk pass, render, persist. Strictly sequential, no retries; failure
// in any stage aborts to the error path with its category intact.
type Processor struct {
	Logger    *slog.Logger
	Cfg       Config
	Fetcher   Fetcher
	Extractor extract.TextExtractor
	Clauses   ClauseStage
	Risks     RiskStage
	Store     storage.ObjectStore
	Cache     ReportCache              // optional, may be nil
	Audit     *repository.AnalysisAudit // optional, nil-safe
}

func NewProcessor(cfg Config, fetcher Fetcher, extractor extract.TextExtractor, clauseStage ClauseStage, riskStage RiskStage, store storage.ObjectStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	if cfg.Generator == "" {
		cfg.Generator = "leasescan"
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 24 * time.Hour
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 60 * time.Second
	}
	return &Processor{
		Logger:    logger,
		Cfg:       cfg,
		Fetcher:   fetcher,
		Extractor: extractor,
		Clauses:   clauseStage,
		Risks:     riskStage,
		Store:     store,
	}
}

// Process runs the full pipeline for one request. The returned error, when
// non-nil, always carries a failure category (CategoryOf never misses).
func (p *Processor) Process(ctx context.Context, fileURL, email string) (Result, error) {
	item, err := NewWorkItem(p.Cfg.WorkDir, fileURL, email, p.Logger)
	if err != nil {
		return Result{}, common.NewAppError(common.CategoryUnexpected, "allocate work item", err)
	}
	defer item.Cleanup()

	state := constants.StateReceived
	start := time.Now()
	reportKey := ""
	var failErr error

	defer func() {
		p.recordAudit(item, state, reportKey, failErr, start)
	}()

	log := p.Logger.With("work_item_id", item.ID)
	log.Info("pipeline.received", "file_url", fileURL)

	// Idempotency: a repeat URL inside the cache window reuses the stored key.
	if p.Cache != nil {
		if key, ok := p.Cache.Lookup(ctx, fileURL); ok {
			if url, err := p.presign(ctx, key); err == nil {
				log.Info("pipeline.cache_hit", "report_key", key)
				state = constants.StateDone
				reportKey = key
				return Result{WorkItemID: item.ID.String(), ReportURL: url, Cached: true}, nil
			}
			log.Warn("pipeline.cache_stale", "report_key", key)
		}
	}

	if err := p.Fetcher.Download(ctx, fileURL, item.SourcePath()); err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StateDownloaded
	log.Info("pipeline.downloaded")

	extracted, err := p.Extractor.Extract(ctx, item.SourcePath())
	if err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StateExtracted
	log.Info("pipeline.extracted", "method", extracted.Method, "pages", extracted.Pages, "text_bytes", len(extracted.Text))

	clauseSet, err := p.Clauses.Run(ctx, extracted.Text)
	if err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StateClausesReady
	log.Info("pipeline.clauses_ready", "clauses", len(clauseSet.Clauses))

	riskSet, err := p.Risks.Run(ctx, clauseSet)
	if err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StateRiskReady
	log.Info("pipeline.risk_ready", "risks", len(riskSet.Risks), "deal_score", riskSet.DealScore)

	meta := report.Meta{GeneratedAt: time.Now().UTC(), Generator: p.Cfg.Generator}
	reportBytes := report.Render(clauseSet, riskSet, meta)
	workbookBytes, err := report.BuildWorkbook(clauseSet, riskSet, meta)
	if err != nil {
		// the text report is the deliverable; a workbook failure is not fatal
		log.Warn("pipeline.workbook_failed", "error", err)
		workbookBytes = nil
	}
	if err := p.stageArtifacts(item, reportBytes, workbookBytes); err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StateReportReady
	log.Info("pipeline.report_ready", "report_bytes", len(reportBytes), "workbook_bytes", len(workbookBytes))

	reportURL, key, err := p.persist(ctx, item, reportBytes, workbookBytes)
	if err != nil {
		state, failErr = constants.StateFailed, err
		item.Cleanup()
		return Result{}, err
	}
	state = constants.StatePersisted
	reportKey = key
	log.Info("pipeline.persisted", "report_key", key)

	// artifacts are durable now; release transients before returning
	item.Cleanup()

	if p.Cache != nil {
		p.Cache.Store(ctx, fileURL, key)
	}

	state = constants.StateDone
	log.Info("pipeline.done", "elapsed_ms", time.Since(start).Milliseconds())
	return Result{WorkItemID: item.ID.String(), ReportURL: reportURL}, nil
}

// stageArtifacts writes the rendered artifacts into the item's transient dir.
func (p *Processor) stageArtifacts(item *WorkItem, reportBytes, workbookBytes []byte) error {
	if err := os.WriteFile(item.ReportPath(), reportBytes, 0o644); err != nil {
		return common.NewAppError(common.CategoryUnexpected, "stage report", err)
	}
	if workbookBytes != nil {
		if err := os.WriteFile(item.WorkbookPath(), workbookBytes, 0o644); err != nil {
			return common.NewAppError(common.CategoryUnexpected, "stage workbook", err)
		}
	}
	return nil
}

// persist uploads the artifacts and returns the signed report URL + key.
func (p *Processor) persist(ctx context.Context, item *WorkItem, reportBytes, workbookBytes []byte) (string, string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, p.Cfg.UploadTimeout)
	defer cancel()

	key := storage.ReportKey(item.ID.String())
	if err := p.Store.Put(uploadCtx, key, bytes.NewReader(reportBytes), storage.ReportContentType); err != nil {
		return "", "", common.NewAppError(common.CategoryStorage, "upload report", err)
	}

	if workbookBytes != nil {
		wbKey := storage.WorkbookKey(item.ID.String())
		if err := p.Store.Put(uploadCtx, wbKey, bytes.NewReader(workbookBytes), storage.WorkbookContentType); err != nil {
			// workbook is supplementary; log and keep going
			p.Logger.Warn("pipeline.workbook_upload_failed", "work_item_id", item.ID, "error", err)
		}
	}

	url, err := p.presign(ctx, key)
	if err != nil {
		return "", "", common.NewAppError(common.CategoryStorage, "generate report URL", err)
	}
	return url, key, nil
}

func (p *Processor) presign(ctx context.Context, key string) (string, error) {
	return p.Store.PresignGet(ctx, key, p.Cfg.PresignExpiry)
}

func (p *Processor) recordAudit(item *WorkItem, state constants.WorkState, reportKey string, failErr error, start time.Time) {
	if p.Audit == nil {
		return
	}
	rec := repository.AuditRecord{
		WorkItemID: item.ID,
		FileURL:    item.FileURL,
		Email:      item.Email,
		State:      state,
		ReportKey:  reportKey,
		StartedAt:  start.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if failErr != nil {
		rec.FailCategory = string(common.CategoryOf(failErr))
		rec.FailDetail = common.MessageOf(failErr)
	}
	// audit write uses a fresh context: the request's may already be canceled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.Audit.Record(ctx, rec)
}
