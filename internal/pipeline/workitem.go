package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkItem is one lease-processing request. It owns a transient directory
// named by its identifier; every locally-created file (source PDF, rendered
// report) lives there and is released exactly once via Cleanup, on every exit
// path.
type WorkItem struct {
	ID        uuid.UUID
	FileURL   string
	Email     string
	CreatedAt time.Time

	dir     string
	cleanup sync.Once
	logger  *slog.Logger
}

// NewWorkItem allocates the item's identity and transient directory.
func NewWorkItem(workDir, fileURL, email string, logger *slog.Logger) (*WorkItem, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	dir := filepath.Join(workDir, id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &WorkItem{
		ID:        id,
		FileURL:   fileURL,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		dir:       dir,
		logger:    logger,
	}, nil
}

// SourcePath is where the downloaded document lives.
func (w *WorkItem) SourcePath() string {
	return filepath.Join(w.dir, "lease.pdf")
}

// ReportPath is where the rendered text report is staged before upload.
func (w *WorkItem) ReportPath() string {
	return filepath.Join(w.dir, "report.txt")
}

// WorkbookPath is where the rendered XLSX workbook is staged before upload.
func (w *WorkItem) WorkbookPath() string {
	return filepath.Join(w.dir, "report.xlsx")
}

// Cleanup removes the item's transient directory. Idempotent; safe to defer
// alongside explicit calls on failure paths.
func (w *WorkItem) Cleanup() {
	w.cleanup.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.logger.Warn("workitem.cleanup_failed", "work_item_id", w.ID, "dir", w.dir, "error", err)
			return
		}
		w.logger.Debug("workitem.cleaned", "work_item_id", w.ID)
	})
}
