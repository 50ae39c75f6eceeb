package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	httphandler "github.com/ogurasousui/codex-records-api/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-records-api/internal/adapters/repository/document"
	"github.com/ogurasousui/codex-records-api/internal/core/employee"
	"github.com/ogurasousui/codex-records-api/internal/core/payment"
	"github.com/ogurasousui/codex-records-api/internal/core/task"
	"github.com/ogurasousui/codex-records-api/internal/platform/config"
	"github.com/ogurasousui/codex-records-api/internal/platform/logging"
	"github.com/ogurasousui/codex-records-api/internal/platform/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("server stopped with error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stdout)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := store.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	repos := document.NewRepositories(store)
	taskSvc := task.NewService(repos.Tasks, nil, logger)
	employeeSvc := employee.NewService(repos.Employees, logger)
	paymentSvc := payment.NewService(repos.Payments, repos.Employees, nil, logger)

	router := httphandler.NewRouter(
		httphandler.Services{Tasks: taskSvc, Employees: employeeSvc, Payments: paymentSvc},
		httphandler.RouterOptions{AllowedOrigins: cfg.Server.CORSAllowedOrigins, Logger: logger},
	)

	g, gctx := errgroup.WithContext(ctx)

	httpServer := server.NewHTTP(cfg.Server.ListenAddr, router, cfg.Server.ShutdownTimeout, logger)
	g.Go(func() error { return httpServer.Run(gctx) })

	if cfg.Server.HealthAddr != "" {
		healthServer := server.NewHealth(cfg.Server.HealthAddr, logger)
		g.Go(func() error { return healthServer.Run(gctx) })
	}

	logger.Info("records api started", "driver", cfg.Store.Driver, "addr", cfg.Server.ListenAddr)

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("records api stopped")
	return nil
}
