// Package database provides the datastore handle with lifecycle coordination.
// PostgreSQL (pgx) and SQLite (modernc) are selected by the connection URL scheme.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/promptbase/pkg/lifecycle"
	"github.com/JaimeStill/promptbase/pkg/query"
)

// System manages the datastore handle and lifecycle coordination.
type System interface {
	// Connection returns the underlying database handle.
	Connection() *sql.DB
	// Dialect returns the SQL dialect of the connection.
	Dialect() query.Dialect
	// Start verifies the connection and registers a shutdown hook that closes it.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	dialect     query.Dialect
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure handle parameters,
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, fmt.Errorf("resolve dialect: %w", err)
	}

	db, err := sql.Open(cfg.DriverName(), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		dialect:     dialect,
		logger:      logger.With("system", "database", "dialect", dialect),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Dialect() query.Dialect {
	return d.dialect
}

// Start pings synchronously so an unreachable datastore fails startup.
// On failure the handle is closed before returning.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(pingCtx); err != nil {
		d.conn.Close()
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	d.logger.Info("database connection established")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}
