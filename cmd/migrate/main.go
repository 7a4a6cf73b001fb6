package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/boreksan/trayorders/migrations"
	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/logger"
	"github.com/boreksan/trayorders/pkg/migrator"
)

// Applies every pending migration in migrations/ and exits.
func main() {
	if err := run(); err != nil {
		slog.Error("migrate exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrator.RunMigrations(ctx, cfg.DatabaseURL, migrations.FS, log); err != nil {
		return err
	}
	log.Info("migrations complete")
	return nil
}
