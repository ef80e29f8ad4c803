package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/promptbase/internal/api"
	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/infrastructure"
	"github.com/JaimeStill/promptbase/internal/library"
	"github.com/JaimeStill/promptbase/pkg/middleware"
	"github.com/JaimeStill/promptbase/pkg/module"
	"github.com/JaimeStill/promptbase/web/app"
)

type Modules struct {
	API *module.Module
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appLogger := infra.Logger.With("module", "app")
	flow := library.New(domain.Prompts, appLogger)

	appModule, err := app.NewModule(cfg.App.BasePath, cfg.App.Title, flow, appLogger)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.RequestID())
	appModule.Use(middleware.Logger(appLogger))
	appModule.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.App.BasePath+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
