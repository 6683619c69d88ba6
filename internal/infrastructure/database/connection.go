package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/eslsoft/parcours/internal/infrastructure/config"
)

// NewDB opens a database handle for the configured driver and verifies the
// connection. The returned cleanup closes the handle.
func NewDB(cfg *config.Config) (*sql.DB, func(), error) {
	driver := cfg.DatabaseDriver()
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if driver == "sqlite3" {
		// Concurrent writers on one file need serialization.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(10)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if driver == "sqlite3" {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	return db, func() { _ = db.Close() }, nil
}
