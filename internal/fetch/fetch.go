package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/leasescan/leasescan/internal/common"
)

// Downloader fetches the source document from the caller-supplied URL into a
// transient file owned by the work item.
type Downloader struct {
	Client       *http.Client
	MaxSizeBytes int64
	Logger       *slog.Logger
}

func NewDownloader(timeout time.Duration, maxSizeBytes int64, logger *slog.Logger) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = 50 * 1024 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		Client:       &http.Client{Timeout: timeout},
		MaxSizeBytes: maxSizeBytes,
		Logger:       logger,
	}
}

// Download writes the document at url to destPath. Network errors, non-2xx
// statuses and oversized bodies all classify as fetch_error.
func (d *Downloader) Download(ctx context.Context, url, destPath string) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return common.NewAppError(common.CategoryFetch, "Failed to download file", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		d.Logger.Error("fetch.failed", "url", url, "error", err)
		return common.NewAppError(common.CategoryFetch, "Failed to download file", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.Logger.Warn("fetch.body_close_error", "url", url, "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		d.Logger.Error("fetch.bad_status", "url", url, "status", resp.StatusCode)
		return common.NewAppError(common.CategoryFetch, "Failed to download file",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	out, err := os.Create(destPath)
	if err != nil {
		return common.NewAppError(common.CategoryFetch, "Failed to download file", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			d.Logger.Warn("fetch.file_close_error", "path", destPath, "error", cerr)
		}
	}()

	n, err := io.Copy(out, io.LimitReader(resp.Body, d.MaxSizeBytes+1))
	if err != nil {
		return common.NewAppError(common.CategoryFetch, "Failed to download file", err)
	}
	if n > d.MaxSizeBytes {
		return common.NewAppError(common.CategoryFetch, "Failed to download file",
			fmt.Errorf("document exceeds %d bytes", d.MaxSizeBytes))
	}

	d.Logger.Info("fetch.ok",
		"url", url,
		"bytes", n,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
