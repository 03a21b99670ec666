package cache

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir is the directory inside Migrations holding the goose files
const MigrationsDir = "migrations"

// Migrations returns the embedded cache table migrations
func Migrations() embed.FS {
	return migrationsFS
}

// Migrate applies all pending cache migrations. dialect is a goose dialect
// name, "sqlite3" or "postgres".
func Migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, MigrationsDir); err != nil {
		return fmt.Errorf("failed to run cache migrations: %w", err)
	}
	return nil
}
