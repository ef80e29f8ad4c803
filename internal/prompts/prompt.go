// Package prompts implements the prompt library domain.
// It provides types, validation, data access, and HTTP handlers for
// stored prompts and their optional placeholder templates.
package prompts

import (
	"strings"
	"time"

	"github.com/JaimeStill/promptbase/pkg/placeholder"
)

// Prompt is a stored text prompt with an optional template.
type Prompt struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	Template   string    `json:"template"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Placeholders returns the placeholder names declared by the template.
func (p Prompt) Placeholders() []string {
	return placeholder.Extract(p.Template)
}

// Render fills the template with values.
func (p Prompt) Render(values map[string]string) (string, error) {
	return placeholder.Render(p.Template, values)
}

// CreateCommand carries the data needed to create a prompt.
type CreateCommand struct {
	Title      string `json:"title"`
	Prompt     string `json:"prompt"`
	Template   string `json:"template"`
	IsFavorite bool   `json:"is_favorite"`
}

// Validate reports a *ValidationError when a required field is blank.
func (c CreateCommand) Validate() error {
	return Validate(c.Title, c.Prompt)
}

// UpdateCommand replaces every mutable field of a prompt.
type UpdateCommand struct {
	Title      string `json:"title"`
	Prompt     string `json:"prompt"`
	Template   string `json:"template"`
	IsFavorite bool   `json:"is_favorite"`
}

// Validate reports a *ValidationError when a required field is blank.
func (c UpdateCommand) Validate() error {
	return Validate(c.Title, c.Prompt)
}

// Validate checks the required prompt fields. Whitespace-only values count as empty.
func Validate(title, prompt string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	return nil
}
