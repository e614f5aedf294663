package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tracker/internal/chart"
	"tracker/internal/cli"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/store"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(store.Config{
		Type:         store.BackendType(cfg.DataBackend),
		UsersFile:    cfg.UsersFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close document store", "error", err)
		}
	}()

	doc, err := st.Load(ctx)
	if err != nil {
		logger.Error("Failed to load document", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Document loaded", "accounts", len(doc.Users), "backend", cfg.DataBackend)

	accounts := services.NewAccountService(doc, st, logger)
	ledger := services.NewLedgerService(doc, st, logger)
	renderer := chart.NewRenderer(cfg.ChartEnabled, cfg.ChartDir)

	srv := apphttp.NewServer(":"+cfg.Port, accounts, ledger, renderer,
		applog.Wrap(logger, applog.ComponentHTTP), cfg.ChartOpenViewer)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
