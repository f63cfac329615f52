package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tyrecheck/tyrecheck-go/internal/config"
	"github.com/tyrecheck/tyrecheck-go/internal/crypto"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
	"github.com/tyrecheck/tyrecheck-go/internal/server"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
	"github.com/tyrecheck/tyrecheck-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	hasher, err := crypto.NewHasher(cfg.Auth.HashCost)
	if err != nil {
		slog.Error("invalid hash cost", "error", err)
		os.Exit(1)
	}
	tokens, err := crypto.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenExpiry)
	if err != nil {
		slog.Error("invalid token settings", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.Database)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	images, err := storage.New(context.Background(), cfg.Upload)
	if err != nil {
		slog.Error("upload storage setup failed", "error", err, "backend", cfg.Upload.Backend)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)

	handler := server.NewRouter(cfg, server.Deps{
		Logger:   logger,
		DB:       db,
		Registry: registry,
		Auth:     service.NewAuthService(repository.NewUserRepository(db), hasher, tokens),
		Claims:   service.NewClaimService(repository.NewClaimRepository(db)),
		Dealers:  service.NewDealerService(repository.NewDealerRepository(db)),
		Summary:  service.NewSummaryService(repository.NewReportRepository(db)),
		Uploads:  service.NewUploadService(images),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newLogger logs JSON in production and text elsewhere.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
