// Package db opens the application database and runs schema migrations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file-based migrations
	_ "github.com/jackc/pgx/v5/stdlib"                       // database/sql driver

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/config"
)

// Open creates a *sql.DB over the pgx stdlib driver and verifies the
// connection with a short ping.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	pool, err := sql.Open("pgx", "postgres://"+cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to open database", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetConnMaxIdleTime(10 * time.Minute)
	pool.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("failed to connect to database", err)
	}
	return pool, nil
}

// RunMigrations applies all pending migrations from the configured directory.
// An up-to-date schema is not an error.
func RunMigrations(cfg config.DatabaseConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, "pgx5://"+cfg.DSN())
	if err != nil {
		return apperror.NewDatabaseError("failed to initialize migrations", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError("failed to apply migrations", err)
	}
	return nil
}
