// Package api assembles the JSON API module with its domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/pkg/middleware"
	"github.com/JaimeStill/promptbase/pkg/module"
	"github.com/JaimeStill/promptbase/pkg/openapi"
	"github.com/JaimeStill/promptbase/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
// The generated OpenAPI document is served at /openapi.json.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	groups := domain.Groups()

	mux := http.NewServeMux()
	routes.Register(mux, groups...)

	doc, err := buildDocument(cfg, groups)
	if err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(doc))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	return m, nil
}

func buildDocument(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	doc := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	doc.SetDescription(cfg.API.OpenAPI.Description)
	doc.AddServer(cfg.API.BasePath)

	routes.Document(doc, groups...)

	return openapi.MarshalJSON(doc)
}
