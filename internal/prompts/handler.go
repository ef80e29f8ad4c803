package prompts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/promptbase/pkg/handlers"
	"github.com/JaimeStill/promptbase/pkg/pagination"
	"github.com/JaimeStill/promptbase/pkg/placeholder"
	"github.com/JaimeStill/promptbase/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Favorite *bool `json:"favorite,omitempty"`
}

// RenderRequest carries placeholder values for the render endpoint.
type RenderRequest struct {
	Values map[string]string `json:"values"`
}

// RenderResponse is the rendered template text.
type RenderResponse struct {
	Text string `json:"text"`
}

// PlaceholdersResponse lists the placeholders a prompt's template declares.
type PlaceholdersResponse struct {
	Placeholders []string `json:"placeholders"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/prompts",
		Tags:    []string{"Prompts"},
		Schemas: apiDocs.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: apiDocs.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: apiDocs.Find},
			{Method: "GET", Pattern: "/{id}/placeholders", Handler: h.Placeholders, OpenAPI: apiDocs.Placeholders},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: apiDocs.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: apiDocs.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: apiDocs.Delete},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: apiDocs.Search},
			{Method: "POST", Pattern: "/{id}/favorite", Handler: h.Favorite, OpenAPI: apiDocs.Favorite},
			{Method: "POST", Pattern: "/{id}/unfavorite", Handler: h.Unfavorite, OpenAPI: apiDocs.Unfavorite},
			{Method: "POST", Pattern: "/{id}/render", Handler: h.Render, OpenAPI: apiDocs.Render},
		},
	}
}

// List returns a paginated list of prompts with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Page(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching prompts.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.Page(r.Context(), req.PageRequest, Filters{Favorite: req.Favorite})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single prompt by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Placeholders returns the placeholder names of a prompt's template.
func (h *Handler) Placeholders(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PlaceholdersResponse{Placeholders: prompt.Placeholders()})
}

// Create processes a JSON body to create a new prompt.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, prompt)
}

// Update processes a JSON body that replaces every mutable field of a prompt.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Delete removes a prompt by its id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Favorite marks a prompt as a favorite.
func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, true)
}

// Unfavorite clears a prompt's favorite flag.
func (h *Handler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, false)
}

// Render fills a prompt's template with the supplied values.
// Missing placeholders answer 422 with the missing names.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	text, err := prompt.Render(req.Values)
	if err != nil {
		var missing *placeholder.MissingError
		if errors.As(err, &missing) {
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   err.Error(),
				"missing": missing.Names,
			})
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, RenderResponse{Text: text})
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := h.sys.SetFavorite(r.Context(), id, favorite)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

// ParseID parses a positive prompt id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}
