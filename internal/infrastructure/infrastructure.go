// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, database, schema) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/schema"
	"github.com/JaimeStill/promptbase/pkg/database"
	"github.com/JaimeStill/promptbase/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// The lifecycle context ends with ctx.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(ctx, cfg, os.Stderr)
}

// NewWithWriter is New with log output directed to w.
func NewWithWriter(ctx context.Context, cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := NewLogger(w, cfg.Level())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.WithParent(ctx),
		Logger:    logger,
		Database:  db,
	}, nil
}

// NewLogger returns the service text logger at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Start connects the database and provisions the prompts schema.
// Either failure aborts startup.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	err := schema.Provision(
		i.Lifecycle.Context(),
		i.Database.Connection(),
		i.Database.Dialect(),
		i.Logger.With("system", "schema"),
	)
	if err != nil {
		return fmt.Errorf("schema provision failed: %w", err)
	}
	return nil
}
