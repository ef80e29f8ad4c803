package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/promptbase/pkg/query"
	"github.com/JaimeStill/promptbase/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "prompts", "p").
	Project("id", "id").
	Project("title", "title").
	Project("prompt", "prompt").
	Project("template", "template").
	Project("is_favorite", "isFavorite").
	Project("created_at", "createdAt").
	Project("updated_at", "updatedAt")

// returning lists the columns scanned by scanPrompt for INSERT/UPDATE statements.
const returning = "id, title, prompt, template, is_favorite, created_at, updated_at"

var defaultSort = []query.SortField{
	{Field: "createdAt", Descending: true},
	{Field: "id", Descending: true},
}

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored and the remaining criteria are combined with AND.
// Search is a literal, case-sensitive substring match on title or prompt.
type Filters struct {
	Favorite *bool   `json:"favorite,omitempty"`
	Search   *string `json:"search,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereSearch(f.Search, "title", "prompt").
		WhereEquals("isFavorite", f.Favorite)
}

// FavoriteFilter maps the "favorites" and "others" selections to a filter value.
// Selecting both or neither yields nil, meaning no filter.
func FavoriteFilter(favorites, others bool) *bool {
	if favorites == others {
		return nil
	}
	return &favorites
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	if v := values.Get("favorite"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Favorite = &b
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Prompt,
		&p.Template,
		&p.IsFavorite,
		repository.ScanTime(&p.CreatedAt),
		repository.ScanTime(&p.UpdatedAt),
	)
	return p, err
}
