package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationFS holds one directory of SQL migrations per driver.
//
//go:embed migrations
var migrationFS embed.FS

// Migrate applies the embedded migrations for driver in direction ("up" or
// "down"). Already being at the target version is not an error.
func Migrate(driver, dsn, direction string) error {
	if dsn == "" {
		return errors.New("database DSN is not set")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
	url, err := migrateURL(driver, dsn)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrateURL turns a database/sql DSN into the URL form golang-migrate
// expects.
func migrateURL(driver, dsn string) (string, error) {
	switch driver {
	case "sqlite3":
		if strings.HasPrefix(dsn, "sqlite3://") {
			return dsn, nil
		}
		return "sqlite3://" + dsn, nil
	case "postgres":
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return "", errors.New("postgres DSN must be a postgres:// URL")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
