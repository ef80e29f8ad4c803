package infrastructure_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/infrastructure"
)

func memoryConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_URL", url)
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestStartProvisionsSchema(t *testing.T) {
	cfg := memoryConfig(t, "sqlite://:memory:")

	var logs bytes.Buffer
	infra, err := infrastructure.NewWithWriter(t.Context(), cfg, &logs)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { infra.Lifecycle.Shutdown(time.Second) })

	var count int
	row := infra.Database.Connection().QueryRow(`SELECT COUNT(*) FROM prompts`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("prompts table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if !strings.Contains(logs.String(), "schema provisioned") {
		t.Errorf("expected schema provisioned log, got:\n%s", logs.String())
	}
}

func TestStartUnreachableDatabase(t *testing.T) {
	cfg := memoryConfig(t, "postgres://nobody@127.0.0.1:1/promptbase?sslmode=disable&connect_timeout=1")
	cfg.Database.ConnTimeout = "500ms"

	var logs bytes.Buffer
	infra, err := infrastructure.NewWithWriter(t.Context(), cfg, &logs)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := infra.Start(); err == nil {
		t.Fatal("Start() should fail for an unreachable database")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record missing")
	}
}
