package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptbase/internal/api"
	"github.com/JaimeStill/promptbase/internal/config"
	"github.com/JaimeStill/promptbase/internal/infrastructure"
	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/pkg/middleware"
	"github.com/JaimeStill/promptbase/pkg/module"
	"github.com/JaimeStill/promptbase/pkg/pagination"
)

func newRouter(t *testing.T) *module.Router {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("PROMPTBASE_API_MAX_BODY_SIZE", "1KB")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	infra, err := infrastructure.NewWithWriter(t.Context(), cfg, io.Discard)
	require.NoError(t, err)
	require.NoError(t, infra.Start())
	t.Cleanup(func() { infra.Lifecycle.Shutdown(time.Second) })

	runtime := api.NewRuntime(cfg, infra)
	router := module.NewRouter()
	m, err := api.NewModule(cfg, runtime, api.NewDomain(runtime))
	require.NoError(t, err)
	router.Mount(m)
	return router
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPromptLifecycle(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, "POST", "/api/prompts", `{"title":"Greet","prompt":"Say hi","template":"Hello {name}"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var created prompts.Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Greet", created.Title)
	assert.False(t, created.IsFavorite)

	rec = do(t, router, "POST", "/api/prompts/1/favorite", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, "GET", "/api/prompts?favorite=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page pagination.PageResult[prompts.Prompt]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].IsFavorite)

	rec = do(t, router, "POST", "/api/prompts/1/render", `{"values":{"name":"Ada"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Hello Ada")

	rec = do(t, router, "DELETE", "/api/prompts/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, "GET", "/api/prompts/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationRejected(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, "POST", "/api/prompts", `{"title":"  ","prompt":"body"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestBodyLimit(t *testing.T) {
	router := newRouter(t)

	body := `{"title":"big","prompt":"` + strings.Repeat("x", 2048) + `"}`
	rec := do(t, router, "POST", "/api/prompts", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, "GET", "/api/prompts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestOpenAPIDocument(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, "GET", "/api/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Equal(t, "Promptbase API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "/api", doc.Servers[0].URL)

	assert.Contains(t, doc.Paths["/prompts"], "get")
	assert.Contains(t, doc.Paths["/prompts"], "post")
	assert.Contains(t, doc.Paths["/prompts/{id}"], "put")
	assert.Contains(t, doc.Paths["/prompts/{id}"], "delete")
	assert.Contains(t, doc.Paths["/prompts/{id}/render"], "post")
	assert.Contains(t, doc.Components.Schemas, "Prompt")
	assert.Contains(t, doc.Components.Schemas, "PageRequest")
}
