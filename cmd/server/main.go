package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mlisik/walletd/infra"
	infrarepo "github.com/mlisik/walletd/infra/repository"
	"github.com/mlisik/walletd/pkg/config"
	"github.com/mlisik/walletd/pkg/service/auth"
	"github.com/mlisik/walletd/pkg/service/category"
	"github.com/mlisik/walletd/pkg/service/transaction"
	"github.com/mlisik/walletd/pkg/service/wallet"
	"github.com/mlisik/walletd/webapi"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(".env", logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	categorySvc := category.New(uow, logger)
	if err := categorySvc.SeedGlobal(context.Background()); err != nil {
		return fmt.Errorf("seed global categories: %w", err)
	}

	deps := webapi.Services{
		Auth:        auth.New(uow, &cfg.Jwt, logger),
		Wallet:      wallet.New(uow, logger),
		Transaction: transaction.New(uow, logger),
		Category:    categorySvc,
		Cfg:         cfg,
		Logger:      logger,
	}
	app := webapi.NewApp(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return app.Shutdown()
	}
}
