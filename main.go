package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaos-io/transpalentor/config"
	"github.com/chaos-io/transpalentor/server"
	"github.com/chaos-io/transpalentor/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		slog.Error("transpalentor exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	store, err := storage.New(cfg.StorageDir)
	if err != nil {
		return err
	}

	janitor, err := storage.NewJanitor(store, cfg.CleanupSchedule, cfg.SessionTTL.Duration)
	if err != nil {
		return fmt.Errorf("create janitor: %w", err)
	}
	janitor.Start()
	defer janitor.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting transpalentor", "addr", cfg.Addr, "storage", store.Root(), "session_ttl", cfg.SessionTTL.Duration)
	return server.New(cfg, store, logger).Run(ctx)
}
