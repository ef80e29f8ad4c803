// Package app serves the server-rendered prompt library page.
package app

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptbase/internal/library"
	"github.com/JaimeStill/promptbase/pkg/module"
	"github.com/JaimeStill/promptbase/pkg/web"
)

//go:embed layouts/*.html
var layoutFS embed.FS

//go:embed views/*.html
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app"

// NewModule creates the library page module mounted at basePath.
func NewModule(basePath, title string, flow *library.Flow, logger *slog.Logger) (*module.Module, error) {
	page := web.ViewDef{Route: "/{$}", Template: "library.html", Title: title}
	notFound := web.ViewDef{Route: "/", Template: "not-found.html", Title: "Not found"}

	ts, err := web.NewTemplateSet(
		layoutFS,
		viewFS,
		"layouts/*.html",
		"views",
		basePath,
		[]web.ViewDef{page, notFound},
	)
	if err != nil {
		return nil, err
	}

	h := newHandler(flow, ts, page, logger)

	router := web.NewRouter()
	router.HandleFunc("GET /static/", web.DistServer(staticFS, "static", "/static"))
	for _, route := range h.Routes().Routes {
		router.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}
	router.SetFallback(ts.ErrorHandler(layout, notFound, http.StatusNotFound))

	return module.New(basePath, router), nil
}
