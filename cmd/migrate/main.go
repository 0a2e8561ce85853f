package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"catalogapi/internal/config"
	"catalogapi/internal/platform/logging"
	"catalogapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Init(os.Stderr, cfg.LogLevel)

	// create only writes a file.
	var db *sql.DB
	if *command != "create" {
		pool, err := postgres.Open(context.Background(), cfg.DatabaseDSN, cfg.DBTimeout)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		db = stdlib.OpenDBFromPool(pool)
		defer db.Close()
	}

	if err := run(logger, db, cfg.MigrationsDir, *command, *name); err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, db *sql.DB, dir, command, name string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", "dir", dir)
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		logger.Info("migration rolled back", "dir", dir)
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		logger.Info("migration created", "name", name, "dir", dir)
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	return nil
}
