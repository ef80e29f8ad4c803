// Package placeholder renders text templates with named {name} slots.
//
// A placeholder is the literal text between an unescaped "{" and the next "}".
// Doubled braces ("{{" and "}}") are escapes for a literal brace, and "{}" is
// left as is. Substitution is a single pass: inserted values are never
// scanned for further placeholders.
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissing indicates a render was attempted without every placeholder value.
var ErrMissing = errors.New("missing placeholder values")

// MissingError lists the placeholders that had no supplied value, in template order.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissing, strings.Join(e.Names, ", "))
}

func (e *MissingError) Is(target error) bool {
	return target == ErrMissing
}

// token matches, leftmost first: an escaped open brace, an escaped close brace,
// or a placeholder with a non-empty name.
var token = regexp.MustCompile(`\{\{|\}\}|\{([^{}]+)\}`)

// Extract returns the placeholder names in order of first appearance, without duplicates.
func Extract(template string) []string {
	matches := token.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	names := make([]string, 0, len(matches))

	for _, match := range matches {
		name := match[1]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

// Missing returns the placeholders in template that have no key in values.
func Missing(template string, values map[string]string) []string {
	var missing []string
	for _, name := range Extract(template) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Render substitutes every placeholder in template with its value.
// A key that is present with an empty value counts as supplied.
// Returns *MissingError when any placeholder has no key in values.
func Render(template string, values map[string]string) (string, error) {
	if missing := Missing(template, values); len(missing) > 0 {
		return "", &MissingError{Names: missing}
	}

	return token.ReplaceAllStringFunc(template, func(match string) string {
		switch match {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		return values[match[1:len(match)-1]]
	}), nil
}
