package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vmunix/strmsync/internal/app"
	"github.com/vmunix/strmsync/internal/config"
	"github.com/vmunix/strmsync/internal/server"
)

func runServer(configPath string) error {
	if configPath == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = found
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := app.NewLogger(os.Stdout, cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()

	api, err := stack.API(cfg, version, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"version", version,
		"addr", addr,
		"config", configPath,
		"database", cfg.Database.Path,
		"library", cfg.Library.Root,
		"plex", stack.Plex != nil,
		"sync_interval", cfg.Sync.Interval.Duration,
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(server.Config{
		Addr:         addr,
		SyncInterval: cfg.Sync.Interval.Duration,
	}, api.Handler(), stack.Syncer, logger,
		server.WithEventPruner(stack.EventLog),
		server.WithHistoryPruner(stack.History),
	)

	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("server stopped")
	return err
}
