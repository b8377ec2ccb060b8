package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/pipeline"
)

// LeaseProcessor is the pipeline interface the HTTP layer depends on.
type LeaseProcessor interface {
	Process(ctx context.Context, fileURL, email string) (pipeline.Result, error)
}

// Server exposes the processing endpoint and liveness probe.
type Server struct {
	processor LeaseProcessor
	logger    *slog.Logger
}

func NewServer(processor LeaseProcessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{processor: processor, logger: logger}
}

// ProcessLeaseRequest is the single POST body.
type ProcessLeaseRequest struct {
	FileURL string `json:"file_url"`
	Email   string `json:"email"`
}

// SuccessResponse is the caller-facing success envelope.
type SuccessResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ReportURL string `json:"report_url"`
	Email     string `json:"email"`
}

// ErrorResponse is the caller-facing failure envelope. Failures are signaled
// via the status field, not transport-level codes; code carries the failure
// category in machine-readable form.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Router constructs the gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleLiveness)
	r.POST("/process-lease", s.handleProcessLease)
	return r
}

func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "LeaseScan API is live"})
}

// handleProcessLease runs the full pipeline for one request. The envelope is
// always HTTP 200; outcome is carried in the status field.
func (s *Server) handleProcessLease(c *gin.Context) {
	reqID := uuid.New().String()
	ctx := common.WithRequestID(c.Request.Context(), reqID)
	log := s.logger.With("req_id", reqID)

	var req ProcessLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("server.bad_json", "error", err)
		c.JSON(http.StatusOK, ErrorResponse{
			Status:  "error",
			Code:    string(common.CategoryValidation),
			Message: "Invalid JSON in request body.",
		})
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		c.JSON(http.StatusOK, ErrorResponse{
			Status:  "error",
			Code:    string(common.CategoryValidation),
			Message: "Missing 'file_url' in request body.",
		})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusOK, ErrorResponse{
			Status:  "error",
			Code:    string(common.CategoryValidation),
			Message: "Missing 'email' in request body.",
		})
		return
	}

	email := ParseContactEmail(req.Email)
	log.Info("server.process_lease", "file_url", req.FileURL, "email", email)

	res, err := s.processor.Process(ctx, req.FileURL, email)
	if err != nil {
		log.Error("server.process_failed",
			"category", common.CategoryOf(err),
			"error", err,
		)
		c.JSON(http.StatusOK, ErrorResponse{
			Status:  "error",
			Code:    string(common.CategoryOf(err)),
			Message: common.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Status:    "success",
		Message:   "Lease report generated successfully.",
		ReportURL: res.ReportURL,
		Email:     email,
	})
}

// ParseContactEmail extracts the requester address from upstream form
// metadata. Some forms join fields with commas; the address arrives as the
// second-to-last token. A plain address passes through untouched.
func ParseContactEmail(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, ",") {
		return raw
	}
	parts := strings.Split(raw, ",")
	if len(parts) < 2 {
		return raw
	}
	return strings.TrimSpace(parts[len(parts)-2])
}
