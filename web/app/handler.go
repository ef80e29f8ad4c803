package app

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/promptbase/internal/library"
	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/pkg/routes"
	"github.com/JaimeStill/promptbase/pkg/web"
)

// notices are the flash messages a redirect can carry, keyed by query value.
var notices = map[string]string{
	"created":     library.MsgCreated,
	"updated":     library.MsgUpdated,
	"deleted":     library.MsgDeleted,
	"favorited":   library.MsgFavorited,
	"unfavorited": library.MsgUnfavorited,
}

// noticeKey is the reverse of notices.
var noticeKey = map[string]string{
	library.MsgCreated:     "created",
	library.MsgUpdated:     "updated",
	library.MsgDeleted:     "deleted",
	library.MsgFavorited:   "favorited",
	library.MsgUnfavorited: "unfavorited",
}

const placeholderField = "ph:"

// MsgBadForm is shown when a posted body cannot be parsed.
const MsgBadForm = "Could not read the form."

type handler struct {
	flow   *library.Flow
	ts     *web.TemplateSet
	view   web.ViewDef
	logger *slog.Logger
}

func newHandler(flow *library.Flow, ts *web.TemplateSet, view web.ViewDef, logger *slog.Logger) *handler {
	return &handler{
		flow:   flow,
		ts:     ts,
		view:   view,
		logger: logger.With("handler", "app"),
	}
}

func (h *handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Index},
			{Method: "POST", Pattern: "/prompts", Handler: h.Create},
			{Method: "POST", Pattern: "/prompts/{id}", Handler: h.Edit},
			{Method: "POST", Pattern: "/prompts/{id}/delete", Handler: h.Delete},
			{Method: "POST", Pattern: "/prompts/{id}/favorite", Handler: h.Favorite},
			{Method: "POST", Pattern: "/prompts/{id}/fill", Handler: h.Fill},
		},
	}
}

// Index renders the library with the criteria in the query string.
func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.page(r, criteriaFrom(r))

	switch key := r.URL.Query().Get("notice"); key {
	case "":
	case "gone":
		page.Error = library.MsgGone
	default:
		page.Notice = notices[key]
	}

	h.render(w, http.StatusOK, page)
}

// Create handles the creation form.
func (h *handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.readForm(w, r) {
		return
	}
	criteria := criteriaFrom(r)
	form := formFrom(r)

	out := h.flow.Submit(r.Context(), form)
	if out.OK() {
		h.redirect(w, r, criteria, out)
		return
	}

	page := h.page(r, criteria)
	page.Create = form
	page.CreateError = out.Error
	page.CreateField = out.Field
	h.render(w, statusOf(out.Err), page)
}

// Edit handles an item's edit form.
func (h *handler) Edit(w http.ResponseWriter, r *http.Request) {
	if !h.readForm(w, r) {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	criteria := criteriaFrom(r)
	form := formFrom(r)

	out := h.flow.Edit(r.Context(), id, form)
	if out.OK() || out.Refresh {
		h.redirect(w, r, criteria, out)
		return
	}

	page := h.page(r, criteria)
	page.Editing = id
	page.Edit = form
	page.EditError = out.Error
	h.render(w, statusOf(out.Err), page)
}

// Delete handles an item's delete button.
func (h *handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.readForm(w, r) {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.finish(w, r, h.flow.Delete(r.Context(), id))
}

// Favorite handles an item's favorite toggle.
func (h *handler) Favorite(w http.ResponseWriter, r *http.Request) {
	if !h.readForm(w, r) {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	favorite := r.PostFormValue("favorite") == "true"
	h.finish(w, r, h.flow.Favorite(r.Context(), id, favorite))
}

// Fill renders an item's template with the submitted placeholder values.
func (h *handler) Fill(w http.ResponseWriter, r *http.Request) {
	if !h.readForm(w, r) {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	criteria := criteriaFrom(r)
	fill := h.flow.Fill(r.Context(), id, valuesFrom(r))
	if fill.Refresh {
		h.redirect(w, r, criteria, library.Outcome{Refresh: true, Err: fill.Err})
		return
	}

	page := h.page(r, criteria)
	page.Fill = fill
	h.render(w, statusOf(fill.Err), page)
}

// finish redirects after a successful or stale action and re-renders the
// page with the error otherwise.
func (h *handler) finish(w http.ResponseWriter, r *http.Request, out library.Outcome) {
	criteria := criteriaFrom(r)
	if out.OK() || out.Refresh {
		h.redirect(w, r, criteria, out)
		return
	}

	page := h.page(r, criteria)
	page.Error = out.Error
	h.render(w, statusOf(out.Err), page)
}

func (h *handler) page(r *http.Request, criteria library.Criteria) *libraryPage {
	return &libraryPage{Feed: h.flow.Feed(r.Context(), criteria)}
}

func (h *handler) render(w http.ResponseWriter, status int, page *libraryPage) {
	data := web.ViewData{Title: h.view.Title, Data: page}
	if err := h.ts.Render(w, status, layout, h.view.Template, data); err != nil {
		h.logger.Error("render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect answers 303 back to the page, keeping the criteria and naming
// the notice to show.
func (h *handler) redirect(w http.ResponseWriter, r *http.Request, criteria library.Criteria, out library.Outcome) {
	q := criteriaQuery(criteria)
	switch {
	case errors.Is(out.Err, prompts.ErrNotFound):
		q.Set("notice", "gone")
	case out.Notice != "":
		q.Set("notice", noticeKey[out.Notice])
	}

	target := h.ts.BasePath() + "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// readForm parses the posted body up front so a malformed one is answered
// with 400 instead of being read as an empty form.
func (h *handler) readForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("unreadable form", "error", err)
		page := h.page(r, criteriaFrom(r))
		page.Error = MsgBadForm
		h.render(w, http.StatusBadRequest, page)
		return false
	}
	return true
}

func (h *handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := prompts.ParseID(r.PathValue("id"))
	if err != nil {
		h.logger.Warn("invalid prompt id", "id", r.PathValue("id"))
		page := h.page(r, criteriaFrom(r))
		page.Error = "Unknown prompt."
		h.render(w, http.StatusBadRequest, page)
		return 0, false
	}
	return id, true
}

// statusOf picks the response status for a failed action.
// Validation and missing placeholders are 422: the page is re-rendered with
// the submitted values so the user can correct them.
func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, prompts.ErrValidation):
		return http.StatusUnprocessableEntity
	}
	return prompts.MapHTTPStatus(err)
}

func criteriaFrom(r *http.Request) library.Criteria {
	return library.Criteria{
		Search:    r.FormValue("search"),
		Favorites: r.FormValue("favorites") != "",
		Others:    r.FormValue("others") != "",
	}
}

func criteriaQuery(c library.Criteria) url.Values {
	q := url.Values{}
	if c.Search != "" {
		q.Set("search", c.Search)
	}
	if c.Favorites {
		q.Set("favorites", "on")
	}
	if c.Others {
		q.Set("others", "on")
	}
	return q
}

func formFrom(r *http.Request) library.Form {
	return library.Form{
		Title:      r.PostFormValue("title"),
		Prompt:     r.PostFormValue("prompt"),
		Template:   r.PostFormValue("template"),
		IsFavorite: r.PostFormValue("is_favorite") != "",
	}
}

// valuesFrom expects readForm to have run.
func valuesFrom(r *http.Request) map[string]string {
	values := make(map[string]string)
	for key, v := range r.PostForm {
		if name, ok := strings.CutPrefix(key, placeholderField); ok && len(v) > 0 {
			values[name] = v[0]
		}
	}
	return values
}
