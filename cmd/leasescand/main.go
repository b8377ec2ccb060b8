package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/leasescan/leasescan/internal/cache"
	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/common"
	"github.com/leasescan/leasescan/internal/extract"
	"github.com/leasescan/leasescan/internal/fetch"
	"github.com/leasescan/leasescan/internal/pipeline"
	"github.com/leasescan/leasescan/internal/repository"
	"github.com/leasescan/leasescan/internal/risk"
	"github.com/leasescan/leasescan/internal/server"
	"github.com/leasescan/leasescan/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.KeyPrefix, cfg.Storage.Region, logger)
	if err != nil {
		logger.Error("init object store", "error", err)
		os.Exit(1)
	}

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

	extractor := extract.NewChain(extract.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		TessdataDir:   cfg.Extract.TessdataDir,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
	}, logger)

	processor := pipeline.NewProcessor(
		pipeline.Config{
			WorkDir:       cfg.Server.WorkDir,
			Generator:     "leasescan",
			PresignExpiry: cfg.Storage.PresignExpiry,
			UploadTimeout: cfg.Storage.UploadTimeout,
		},
		fetch.NewDownloader(cfg.Fetch.Timeout, cfg.Fetch.MaxSizeBytes, logger),
		extractor,
		clauses.NewStage(clauseModel, cfg.Clause.TextLimit, logger),
		risk.NewStage(riskModel, logger),
		store,
		logger,
	)

	// optional idempotency cache
	if cfg.Cache.RedisAddr != "" {
		rc := cache.New(cfg.Cache.RedisAddr, cfg.Cache.TTL, logger)
		defer func() {
			if cerr := rc.Close(); cerr != nil {
				logger.Warn("close cache", "error", cerr)
			}
		}()
		processor.Cache = rc
		logger.Info("idempotency cache enabled", "addr", cfg.Cache.RedisAddr)
	}

	// optional analysis audit store
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("open audit db", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
			logger.Error("audit db health failed", "error", err)
			os.Exit(1)
		}
		audit := repository.NewAnalysisAudit(pool, logger)
		if err := audit.EnsureSchema(ctx); err != nil {
			logger.Error("ensure audit schema", "error", err)
			os.Exit(1)
		}
		processor.Audit = audit
		logger.Info("analysis audit enabled")
	}

	srv := server.NewServer(processor, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
