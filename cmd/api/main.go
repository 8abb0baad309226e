// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/service"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"
	"finance-tracker/internal/storage/postgres"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()

	// Настройка логгера
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(store, auth.NewTokenService(cfg))
	router := handler.NewRouter(cfg, svc, store)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("🚀 Сервер запущен", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Останавливаем сервер", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("Используется хранилище в памяти, данные не переживут рестарт")
		return memory.New(), nil
	}

	pool, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return postgres.NewStorage(pool), nil
}
