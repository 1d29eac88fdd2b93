// Package database provides database setup, models, and the data
// access layer used by the HTTP API.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"venbot/migrations"

	_ "modernc.org/sqlite"
)

// NewDB connects to the SQLite database at dbPath, applies pending
// migrations, and returns the connection pool.
func NewDB(dbPath string, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite does not support concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ApplyMigrations(db.DB, logger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database after migration failure", "error", closeErr)
		}

		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("database connected and migrations applied", "path", dbPath)

	return db, nil
}

// CloseDB closes the connection pool, logging any error.
func CloseDB(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", "error", err)
	}
}

// ApplyMigrations runs the embedded schema migrations.
func ApplyMigrations(db *sql.DB, logger *slog.Logger) error {
	if db == nil {
		return errors.New("database connection is nil, cannot apply migrations")
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create embed source driver: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite database driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("no database migrations to apply")

			return nil
		}

		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("database migrations applied")

	return nil
}
