package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/infrastructure"
	"github.com/JaimeStill/promptbase/pkg/formatting"
)

type Server struct {
	infra           *infrastructure.Infrastructure
	modules         *Modules
	http            *httpServer
	shutdownTimeout time.Duration
}

// NewServer wires infrastructure, modules, and the HTTP listener.
// The lifecycle context ends with ctx.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"api", cfg.API.BasePath,
		"app", cfg.App.BasePath,
		"max_body_size", formatting.FormatBytes(cfg.API.MaxBodySizeBytes(), 0),
	)

	return &Server{
		infra:           infra,
		modules:         modules,
		http:            newHTTPServer(cfg, router, infra.Logger),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Run starts the service and blocks until the lifecycle context ends,
// then shuts down within the configured timeout.
func (s *Server) Run() error {
	if err := s.Start(); err != nil {
		s.Shutdown(s.shutdownTimeout)
		return fmt.Errorf("start failed: %w", err)
	}

	<-s.infra.Lifecycle.Done()
	return s.Shutdown(s.shutdownTimeout)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.infra.Logger.Info("promptbase stopped")
	return nil
}
