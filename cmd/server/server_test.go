package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/infrastructure"
	"github.com/JaimeStill/promptbase/pkg/module"
)

func newTestRouter(t *testing.T) (*module.Router, *infrastructure.Infrastructure) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	infra, err := infrastructure.NewWithWriter(t.Context(), cfg, io.Discard)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { infra.Lifecycle.Shutdown(time.Second) })

	modules, err := NewModules(infra, cfg)
	if err != nil {
		t.Fatalf("modules: %v", err)
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)
	return router, infra
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestRootRedirectsToApp(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status: got %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/app/" {
		t.Errorf("location: got %s, want /app/", loc)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	router, infra := newTestRouter(t)

	if rec := get(router, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz: got %d, want 200", rec.Code)
	}

	if rec := get(router, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz before startup: got %d, want 503", rec.Code)
	}

	infra.Lifecycle.WaitForStartup()

	if rec := get(router, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("readyz after startup: got %d, want 200", rec.Code)
	}
}

func TestModulesMounted(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/prompts")
	if rec.Code != http.StatusOK {
		t.Errorf("api list: got %d, want 200", rec.Code)
	}

	rec = get(router, "/app/")
	if rec.Code != http.StatusOK {
		t.Fatalf("app page: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Prompt Library") {
		t.Error("app page should render the configured title")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("app responses should carry a request id")
	}
}
