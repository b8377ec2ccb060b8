package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasescan/leasescan/internal/common"
)

func TestDownload_WritesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 lease body"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "lease.pdf")
	d := NewDownloader(5*time.Second, 0, nil)

	require.NoError(t, d.Download(context.Background(), ts.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 lease body", string(data))
}

func TestDownload_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	d := NewDownloader(5*time.Second, 0, nil)
	err := d.Download(context.Background(), ts.URL, filepath.Join(t.TempDir(), "lease.pdf"))

	require.Error(t, err)
	assert.Equal(t, common.CategoryFetch, common.CategoryOf(err))
	assert.Equal(t, "Failed to download file: status 404", common.MessageOf(err))
}

func TestDownload_UnreachableHost(t *testing.T) {
	d := NewDownloader(time.Second, 0, nil)
	err := d.Download(context.Background(), "http://127.0.0.1:1/lease.pdf", filepath.Join(t.TempDir(), "lease.pdf"))

	require.Error(t, err)
	assert.Equal(t, common.CategoryFetch, common.CategoryOf(err))
}

func TestDownload_OversizedBodyRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer ts.Close()

	d := &Downloader{Client: ts.Client(), MaxSizeBytes: 1024, Logger: NewDownloader(0, 0, nil).Logger}
	err := d.Download(context.Background(), ts.URL, filepath.Join(t.TempDir(), "lease.pdf"))

	require.Error(t, err)
	assert.Equal(t, common.CategoryFetch, common.CategoryOf(err))
}
