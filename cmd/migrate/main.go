package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

// open connects to the SQL cache backend selected by cache.mode
func open(cfg *config.CacheConfig) (*sql.DB, string, error) {
	var (
		driver, dsn, dialect string
	)
	switch cfg.Mode {
	case "sqlite":
		driver, dsn, dialect = "sqlite3", cfg.SQLitePath, "sqlite3"
	case "postgres":
		driver, dsn, dialect = "postgres", cfg.Postgres.ConnectionString(), "postgres"
	default:
		return nil, "", fmt.Errorf("cache mode %q has no SQL schema to migrate", cfg.Mode)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dialect, nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate [up|down|status|version]")
	}
	command := args[0]

	db, dialect, err := open(&cfg.Cache)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(cache.Migrations())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, cache.MigrationsDir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		if err := goose.Down(db, cache.MigrationsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		fmt.Println("Migration rolled back successfully")

	case "status":
		if err := goose.Status(db, cache.MigrationsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

	case "version":
		if err := goose.Version(db, cache.MigrationsDir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}

	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	return nil
}
