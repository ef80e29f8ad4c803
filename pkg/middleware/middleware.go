package middleware

import (
	"net/http"
	"slices"
)

// Chain is an ordered list of middleware. The first entry added is the
// outermost wrapper.
type Chain struct {
	stack []func(http.Handler) http.Handler
}

func New() *Chain {
	return &Chain{}
}

func (c *Chain) Use(fn func(http.Handler) http.Handler) {
	c.stack = append(c.stack, fn)
}

// Apply wraps handler with every middleware in the chain.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(c.stack) {
		handler = fn(handler)
	}
	return handler
}
