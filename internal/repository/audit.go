package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasescan/leasescan/constants"
)

// AuditRecord is one terminal row per analyzed work item.
type AuditRecord struct {
	WorkItemID   uuid.UUID
	FileURL      string
	Email        string
	State        constants.WorkState
	FailCategory string // empty on success
	FailDetail   string // empty on success
	ReportKey    string // empty on failure
	StartedAt    time.Time
	FinishedAt   time.Time
}

// AnalysisAudit persists terminal analysis outcomes. Optional: a nil audit
// is a no-op, so the pipeline never depends on the database being configured.
type AnalysisAudit struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAnalysisAudit(pool *pgxpool.Pool, logger *slog.Logger) *AnalysisAudit {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisAudit{pool: pool, logger: logger}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS lease_analyses (
	work_item_id  uuid PRIMARY KEY,
	file_url      text NOT NULL,
	email         text NOT NULL,
	state         text NOT NULL,
	fail_category text NOT NULL DEFAULT '',
	fail_detail   text NOT NULL DEFAULT '',
	report_key    text NOT NULL DEFAULT '',
	started_at    timestamptz NOT NULL,
	finished_at   timestamptz NOT NULL
)`

// EnsureSchema creates the audit table when missing.
func (a *AnalysisAudit) EnsureSchema(ctx context.Context) error {
	if a == nil || a.pool == nil {
		return nil
	}
	_, err := a.pool.Exec(ctx, schemaSQL)
	return err
}

const insertSQL = `
INSERT INTO lease_analyses
	(work_item_id, file_url, email, state, fail_category, fail_detail, report_key, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (work_item_id) DO NOTHING`

// Record writes the terminal row. Best-effort: failures are logged, never
// propagated, so auditing cannot fail a request that already succeeded.
func (a *AnalysisAudit) Record(ctx context.Context, rec AuditRecord) {
	if a == nil || a.pool == nil {
		return
	}
	_, err := a.pool.Exec(ctx, insertSQL,
		rec.WorkItemID, rec.FileURL, rec.Email, string(rec.State),
		rec.FailCategory, rec.FailDetail, rec.ReportKey,
		rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		a.logger.Warn("audit.record_failed", "work_item_id", rec.WorkItemID, "error", err)
		return
	}
	a.logger.Debug("audit.recorded", "work_item_id", rec.WorkItemID, "state", rec.State)
}
