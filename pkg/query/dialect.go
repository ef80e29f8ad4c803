package query

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL flavor a query is rendered for.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect validates a dialect name. "postgresql" is accepted as Postgres.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported dialect: %q", s)
}

// Contains returns a literal, case-sensitive substring predicate for col
// with a single "$%d" parameter slot. Unlike LIKE, the bound value is never
// interpreted as a pattern.
func (d Dialect) Contains(col string) string {
	if d == SQLite {
		return fmt.Sprintf("instr(%s, $%%d) > 0", col)
	}
	return fmt.Sprintf("strpos(%s, $%%d) > 0", col)
}

// Rebind rewrites numbered "$N" parameters into the dialect's placeholder
// style. Parameters must appear in ascending order, each exactly once.
// Quoted literals are copied through untouched.
func (d Dialect) Rebind(q string) string {
	if d != SQLite {
		return q
	}

	var b strings.Builder
	b.Grow(len(q))

	quoted := false
	for i := 0; i < len(q); i++ {
		c := q[i]
		if c == '\'' {
			quoted = !quoted
		}
		if !quoted && c == '$' && i+1 < len(q) && isDigit(q[i+1]) {
			b.WriteByte('?')
			for i+1 < len(q) && isDigit(q[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
