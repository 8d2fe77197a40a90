package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/zaeemsc/openshortlink-sub000/internal/config"
	"github.com/zaeemsc/openshortlink-sub000/internal/history"
	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
	"github.com/zaeemsc/openshortlink-sub000/internal/logging"
	"github.com/zaeemsc/openshortlink-sub000/internal/metrics"
	"github.com/zaeemsc/openshortlink-sub000/internal/shortlink"
	"github.com/zaeemsc/openshortlink-sub000/internal/web"
)

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	metrics.Init()

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"chunk_size", cfg.Import.ChunkSize,
		"max_file_size", cfg.Import.MaxFileSize,
		"history_enabled", cfg.Database.URL != "",
	)

	ctx := context.Background()

	var hist *history.Store
	if cfg.Database.URL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		hist = history.New(pool)
		if err := hist.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		slog.Info("run history enabled")
	}

	client := shortlink.New(shortlink.Config{
		BaseURL:    cfg.Shortlink.BaseURL,
		APIKey:     cfg.Shortlink.APIKey,
		Timeout:    cfg.Shortlink.Timeout,
		MaxRetries: cfg.Shortlink.MaxRetries,
	})

	var recorder importer.RunRecorder
	if hist != nil {
		recorder = hist
	}

	service := importer.NewService(client, recorder, importer.Options{
		ChunkSize:   cfg.Import.ChunkSize,
		MaxFileSize: cfg.Import.MaxFileSize,
		RunTimeout:  cfg.Import.Timeout,
	})

	server := web.NewServer(service, hist, cfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
