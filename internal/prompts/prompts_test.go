package prompts_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/pkg/placeholder"
	"github.com/JaimeStill/promptbase/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", prompts.ErrNotFound, http.StatusNotFound},
		{"validation", &prompts.ValidationError{Field: "title", Message: "title is required"}, http.StatusBadRequest},
		{"constraint", prompts.ErrValidation, http.StatusBadRequest},
		{"invalid id", prompts.ErrInvalidID, http.StatusBadRequest},
		{"missing placeholders", &placeholder.MissingError{Names: []string{"x"}}, http.StatusUnprocessableEntity},
		{"datastore", &prompts.DatastoreError{Op: "list", Err: errors.New("conn reset")}, http.StatusInternalServerError},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", prompts.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompts.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDatastoreError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := error(&prompts.DatastoreError{Op: "create", Err: cause})

	if !errors.Is(err, prompts.ErrDatastore) {
		t.Error("DatastoreError should match ErrDatastore")
	}
	if !errors.Is(err, cause) {
		t.Error("DatastoreError should unwrap to its cause")
	}
	if got := err.Error(); got != "create prompt: disk I/O error" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		prompt string
		field  string
	}{
		{"valid", "Greeting", "Say hello", ""},
		{"empty title", "", "Say hello", "title"},
		{"blank title", "   ", "Say hello", "title"},
		{"empty prompt", "Greeting", "", "prompt"},
		{"blank prompt", "Greeting", "\n\t", "prompt"},
		{"both empty reports title", "", "", "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := prompts.Validate(tt.title, tt.prompt)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *prompts.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, prompts.ErrValidation) {
				t.Error("ValidationError should match ErrValidation")
			}
		})
	}
}

func TestCommandsValidate(t *testing.T) {
	if err := (prompts.CreateCommand{Title: "t"}).Validate(); !errors.Is(err, prompts.ErrValidation) {
		t.Errorf("CreateCommand.Validate() = %v, want ErrValidation", err)
	}
	if err := (prompts.UpdateCommand{Prompt: "p"}).Validate(); !errors.Is(err, prompts.ErrValidation) {
		t.Errorf("UpdateCommand.Validate() = %v, want ErrValidation", err)
	}
}

func TestFavoriteFilter(t *testing.T) {
	tests := []struct {
		name      string
		favorites bool
		others    bool
		want      *bool
	}{
		{"neither", false, false, nil},
		{"both", true, true, nil},
		{"favorites only", true, false, ptr(true)},
		{"others only", false, true, ptr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompts.FavoriteFilter(tt.favorites, tt.others)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("FavoriteFilter() = %v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("FavoriteFilter() = %v, want %v", got, *tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		f := prompts.FiltersFromQuery(url.Values{
			"search":   {"abc"},
			"favorite": {"true"},
		})

		if f.Search == nil || *f.Search != "abc" {
			t.Errorf("Search = %v, want abc", f.Search)
		}
		if f.Favorite == nil || !*f.Favorite {
			t.Errorf("Favorite = %v, want true", f.Favorite)
		}
	})

	t.Run("empty and invalid values ignored", func(t *testing.T) {
		f := prompts.FiltersFromQuery(url.Values{"favorite": {"maybe"}})

		if f.Search != nil {
			t.Errorf("Search = %v, want nil", *f.Search)
		}
		if f.Favorite != nil {
			t.Errorf("Favorite = %v, want nil", *f.Favorite)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	proj := query.NewProjectionMap("", "prompts", "p").
		Project("title", "title").
		Project("prompt", "prompt").
		Project("is_favorite", "isFavorite")

	f := prompts.Filters{Search: ptr("'; DROP TABLE prompts; --"), Favorite: ptr(false)}
	sql, args := f.Apply(query.NewBuilder(proj, query.SQLite)).Build()

	if strings.Contains(sql, "DROP") {
		t.Fatalf("search text leaked into SQL: %s", sql)
	}
	if !strings.Contains(sql, "(instr(p.title, ?) > 0 OR instr(p.prompt, ?) > 0) AND p.is_favorite = ?") {
		t.Errorf("sql = %s", sql)
	}

	want := []any{"'; DROP TABLE prompts; --", "'; DROP TABLE prompts; --", false}
	if !slices.Equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestPromptPlaceholders(t *testing.T) {
	p := prompts.Prompt{Template: "Hello {name}, you are {age}. Bye {name}"}

	if got := p.Placeholders(); !slices.Equal(got, []string{"name", "age"}) {
		t.Errorf("Placeholders() = %q", got)
	}

	text, err := p.Render(map[string]string{"name": "Ada", "age": "30"})
	if err != nil || text != "Hello Ada, you are 30. Bye Ada" {
		t.Errorf("Render() = %q, %v", text, err)
	}
}

func TestParseID(t *testing.T) {
	for _, s := range []string{"", "0", "-4", "abc", "1.5"} {
		if _, err := prompts.ParseID(s); !errors.Is(err, prompts.ErrInvalidID) {
			t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", s, err)
		}
	}

	if id, err := prompts.ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
}
