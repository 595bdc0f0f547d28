package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/RiikenJobstack/jobstackParser/internal/auth"
	"github.com/RiikenJobstack/jobstackParser/internal/cache"
	"github.com/RiikenJobstack/jobstackParser/internal/common"
	"github.com/RiikenJobstack/jobstackParser/internal/extract"
	"github.com/RiikenJobstack/jobstackParser/internal/llm"
	"github.com/RiikenJobstack/jobstackParser/internal/pipeline"
	"github.com/RiikenJobstack/jobstackParser/internal/repository"
	"github.com/RiikenJobstack/jobstackParser/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments configure through the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "error", err)
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// User-record store.
	pool, err := repository.Open(ctx, repository.DBConfig{
		DSN:         cfg.Users.DSN,
		DialTimeout: cfg.Users.DialTimeout,
	}, logger)
	if err != nil {
		return common.WrapError(err, "open user store")
	}
	defer pool.Close()
	if err := repository.HealthCheck(ctx, pool, cfg.Users.DialTimeout); err != nil {
		return common.WrapError(err, "user store health")
	}
	users := repository.NewPGUsers(pool, cfg.Users.Table, logger)

	// Remote cache tier is probed once. A failed probe disables it for the
	// process lifetime; the in-process tier carries the load alone.
	var remote cache.Remote
	redisTier, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:    fmt.Sprintf("%s:%d", cfg.Cache.RedisHost, cfg.Cache.RedisPort),
		DB:      cfg.Cache.RedisDB,
		Timeout: cfg.Cache.Timeout,
	})
	if err != nil {
		logger.Warn("cache.remote.unavailable", "error", err)
	} else {
		remote = redisTier
		defer func() {
			if err := redisTier.Close(); err != nil {
				logger.Warn("cache.remote.close_failed", "error", err)
			}
		}()
		logger.Info("cache.remote.ready", "host", cfg.Cache.RedisHost, "port", cfg.Cache.RedisPort)
	}
	layered := cache.NewLayered(cache.Options{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
	}, remote, logger)

	// Stages.
	ocrEngine := extract.NewOCREngine(extract.OCRConfig{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Lang:      cfg.OCR.Lang,
		DPI:       cfg.OCR.DPI,
	}, nil, logger)
	extractor := extract.NewExtractor(layered, ocrEngine, logger)

	generator := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	transformer := llm.NewTransformer(generator, layered, logger)

	parsePipeline := pipeline.New(extractor, transformer, layered, logger)

	// HTTP surface.
	handler := server.NewHandler(server.Deps{
		Pipeline:       parsePipeline,
		Users:          users,
		Tokens:         auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm),
		Cache:          layered,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
