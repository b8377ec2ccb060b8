package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/pipeline"
)

type fakeProcessor struct {
	result  pipeline.Result
	err     error
	calls   int
	fileURL string
	email   string
}

func (f *fakeProcessor) Process(ctx context.Context, fileURL, email string) (pipeline.Result, error) {
	f.calls++
	f.fileURL = fileURL
	f.email = email
	return f.result, f.err
}

func postLease(t *testing.T, proc *fakeProcessor, body string) (int, map[string]string) {
	t.Helper()
	srv := NewServer(proc, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-lease", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w.Code, envelope
}

func TestLiveness(t *testing.T) {
	srv := NewServer(&fakeProcessor{}, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "LeaseScan API is live"}`, w.Body.String())
}

func TestProcessLease_Success(t *testing.T) {
	proc := &fakeProcessor{result: pipeline.Result{ReportURL: "https://bucket.s3/report?sig=x"}}
	code, env := postLease(t, proc, `{"file_url": "https://files.example/lease.pdf", "email": "ops@example.com"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env["status"])
	assert.Equal(t, "Lease report generated successfully.", env["message"])
	assert.Equal(t, "https://bucket.s3/report?sig=x", env["report_url"])
	assert.Equal(t, "ops@example.com", env["email"])
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, "https://files.example/lease.pdf", proc.fileURL)
}

func TestProcessLease_MissingFileURL(t *testing.T) {
	proc := &fakeProcessor{}
	code, env := postLease(t, proc, `{"email": "ops@example.com"}`)

	assert.Equal(t, http.StatusOK, code, "failures are signaled in the envelope, not the transport code")
	assert.Equal(t, "error", env["status"])
	assert.Equal(t, "validation_error", env["code"])
	assert.Equal(t, "Missing 'file_url' in request body.", env["message"])
	assert.Zero(t, proc.calls, "validation failures never reach the pipeline")
}

func TestProcessLease_MissingEmail(t *testing.T) {
	proc := &fakeProcessor{}
	_, env := postLease(t, proc, `{"file_url": "https://files.example/lease.pdf"}`)

	assert.Equal(t, "error", env["status"])
	assert.Equal(t, "Missing 'email' in request body.", env["message"])
	assert.Zero(t, proc.calls)
}

func TestProcessLease_BadJSON(t *testing.T) {
	proc := &fakeProcessor{}
	code, env := postLease(t, proc, `{"file_url": `)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", env["status"])
	assert.Equal(t, "validation_error", env["code"])
	assert.Zero(t, proc.calls)
}

func TestProcessLease_PipelineFailureCategory(t *testing.T) {
	proc := &fakeProcessor{err: common.NewAppError(common.CategoryFetch, "Failed to download file", errors.New("404"))}
	code, env := postLease(t, proc, `{"file_url": "https://files.example/gone.pdf", "email": "ops@example.com"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", env["status"])
	assert.Equal(t, "fetch_error", env["code"])
	assert.Contains(t, env["message"], "Failed to download file")
}

func TestProcessLease_UnexpectedFailure(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("disk on fire")}
	_, env := postLease(t, proc, `{"file_url": "https://files.example/lease.pdf", "email": "ops@example.com"}`)

	assert.Equal(t, "unexpected_error", env["code"])
	assert.Equal(t, "Unexpected error: disk on fire", env["message"])
}

func TestProcessLease_CommaJoinedEmail(t *testing.T) {
	proc := &fakeProcessor{}
	_, _ = postLease(t, proc, `{"file_url": "https://files.example/lease.pdf", "email": "Jordan Smith,jordan@example.com,form-7"}`)

	assert.Equal(t, "jordan@example.com", proc.email)
}

func TestParseContactEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain@example.com", "plain@example.com"},
		{" padded@example.com ", "padded@example.com"},
		{"a,b@x.com,c", "b@x.com"},
		{"Name, name@example.com, extra, trailer", "extra"},
		{"lead,trail", "lead"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseContactEmail(tc.in), "input %q", tc.in)
	}
}
