// Package library is the presentation flow of the prompt library. It turns
// form submissions and per-item actions into repository calls and reduces
// every result to something a page can display.
package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/pkg/placeholder"
)

// User-facing messages.
const (
	MsgCreated     = "Prompt saved."
	MsgUpdated     = "Prompt updated."
	MsgDeleted     = "Prompt deleted."
	MsgFavorited   = "Added to favorites."
	MsgUnfavorited = "Removed from favorites."
	MsgGone        = "That prompt no longer exists. The list has been refreshed."
	MsgRetry       = "Something went wrong talking to the database. Please try again."
	MsgFillMissing = "Fill in every placeholder to render the template."
	MsgRejected    = "The prompt was rejected by the database."
)

// Repository is the set of prompt operations the flow depends on.
type Repository interface {
	Create(ctx context.Context, cmd prompts.CreateCommand) (*prompts.Prompt, error)
	List(ctx context.Context, filters prompts.Filters) ([]prompts.Prompt, error)
	Find(ctx context.Context, id int64) (*prompts.Prompt, error)
	Update(ctx context.Context, id int64, cmd prompts.UpdateCommand) (*prompts.Prompt, error)
	Delete(ctx context.Context, id int64) error
	SetFavorite(ctx context.Context, id int64, favorite bool) (*prompts.Prompt, error)
}

// Form holds the creatable and editable fields of a prompt as submitted.
type Form struct {
	Title      string
	Prompt     string
	Template   string
	IsFavorite bool
}

// FormOf pre-fills a form with the current values of p.
func FormOf(p prompts.Prompt) Form {
	return Form{
		Title:      p.Title,
		Prompt:     p.Prompt,
		Template:   p.Template,
		IsFavorite: p.IsFavorite,
	}
}

// Criteria is the state of the search box and the favorite checkboxes.
type Criteria struct {
	Search    string
	Favorites bool
	Others    bool
}

// Filters converts the criteria into repository filters.
// An all-whitespace search is treated as no search.
func (c Criteria) Filters() prompts.Filters {
	var f prompts.Filters
	if strings.TrimSpace(c.Search) != "" {
		search := c.Search
		f.Search = &search
	}
	f.Favorite = prompts.FavoriteFilter(c.Favorites, c.Others)
	return f
}

// Outcome is the displayable result of a mutating action.
// Err carries the underlying error for status mapping and is nil on success.
type Outcome struct {
	Prompt  *prompts.Prompt
	Notice  string
	Error   string
	Field   string
	Refresh bool
	Err     error
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Item is a prompt prepared for the list view.
type Item struct {
	prompts.Prompt
	Placeholders []string
}

// Feed is the rendered list for a set of criteria.
type Feed struct {
	Criteria Criteria
	Items    []Item
	Error    string
}

// Fill is the result of rendering a prompt's template.
type Fill struct {
	PromptID int64
	Values   map[string]string
	Text     string
	Missing  []string
	Error    string
	Refresh  bool
	Err      error
}

// Flow drives the repository on behalf of the page.
type Flow struct {
	repo   Repository
	logger *slog.Logger
}

// New creates a Flow over repo.
func New(repo Repository, logger *slog.Logger) *Flow {
	return &Flow{
		repo:   repo,
		logger: logger.With("flow", "library"),
	}
}

// Submit validates the form locally and creates a prompt.
func (f *Flow) Submit(ctx context.Context, form Form) Outcome {
	if err := prompts.Validate(form.Title, form.Prompt); err != nil {
		return f.failure("create", err)
	}

	p, err := f.repo.Create(ctx, prompts.CreateCommand{
		Title:      form.Title,
		Prompt:     form.Prompt,
		Template:   form.Template,
		IsFavorite: form.IsFavorite,
	})
	if err != nil {
		return f.failure("create", err)
	}

	return Outcome{Prompt: p, Notice: MsgCreated, Refresh: true}
}

// Feed lists prompts for the criteria, newest first.
func (f *Flow) Feed(ctx context.Context, criteria Criteria) Feed {
	feed := Feed{Criteria: criteria, Items: []Item{}}

	list, err := f.repo.List(ctx, criteria.Filters())
	if err != nil {
		f.logger.Error("list prompts failed", "error", err)
		feed.Error = MsgRetry
		return feed
	}

	for _, p := range list {
		feed.Items = append(feed.Items, Item{Prompt: p, Placeholders: p.Placeholders()})
	}
	return feed
}

// Edit validates the form locally and replaces the prompt's fields.
func (f *Flow) Edit(ctx context.Context, id int64, form Form) Outcome {
	if err := prompts.Validate(form.Title, form.Prompt); err != nil {
		return f.failure("update", err)
	}

	p, err := f.repo.Update(ctx, id, prompts.UpdateCommand{
		Title:      form.Title,
		Prompt:     form.Prompt,
		Template:   form.Template,
		IsFavorite: form.IsFavorite,
	})
	if err != nil {
		return f.failure("update", err)
	}

	return Outcome{Prompt: p, Notice: MsgUpdated, Refresh: true}
}

// Delete removes the prompt.
func (f *Flow) Delete(ctx context.Context, id int64) Outcome {
	if err := f.repo.Delete(ctx, id); err != nil {
		return f.failure("delete", err)
	}
	return Outcome{Notice: MsgDeleted, Refresh: true}
}

// Favorite sets or clears the prompt's favorite flag.
func (f *Flow) Favorite(ctx context.Context, id int64, favorite bool) Outcome {
	p, err := f.repo.SetFavorite(ctx, id, favorite)
	if err != nil {
		return f.failure("favorite", err)
	}

	notice := MsgUnfavorited
	if favorite {
		notice = MsgFavorited
	}
	return Outcome{Prompt: p, Notice: notice, Refresh: true}
}

// Fill renders the prompt's template with values. Blank values count as not
// supplied; when any placeholder is missing, Missing lists them and no text
// is produced.
func (f *Flow) Fill(ctx context.Context, id int64, values map[string]string) Fill {
	fill := Fill{PromptID: id, Values: values}

	p, err := f.repo.Find(ctx, id)
	if err != nil {
		o := f.failure("find", err)
		fill.Error, fill.Refresh, fill.Err = o.Error, o.Refresh, o.Err
		return fill
	}

	supplied := make(map[string]string, len(values))
	for name, value := range values {
		if strings.TrimSpace(value) != "" {
			supplied[name] = value
		}
	}

	text, err := p.Render(supplied)
	if err != nil {
		var missing *placeholder.MissingError
		if errors.As(err, &missing) {
			fill.Missing = missing.Names
		}
		fill.Error = MsgFillMissing
		fill.Err = err
		return fill
	}

	fill.Text = text
	return fill
}

func (f *Flow) failure(op string, err error) Outcome {
	var verr *prompts.ValidationError
	switch {
	case errors.As(err, &verr):
		return Outcome{Error: verr.Message, Field: verr.Field, Err: err}
	case errors.Is(err, prompts.ErrValidation):
		return Outcome{Error: MsgRejected, Err: err}
	case errors.Is(err, prompts.ErrNotFound):
		return Outcome{Error: MsgGone, Refresh: true, Err: err}
	}

	f.logger.Error("prompt action failed", "op", op, "error", err)
	return Outcome{Error: MsgRetry, Err: err}
}
