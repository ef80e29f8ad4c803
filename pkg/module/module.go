package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/promptbase/pkg/middleware"
)

// Module mounts an inner router under a single-segment prefix such as
// "/api". Requests reach the router with the prefix removed and pass
// through the module's own middleware chain first.
type Module struct {
	prefix  string
	router  http.Handler
	chain   *middleware.Chain
	handler http.Handler
}

// New panics when prefix is not a single segment with a leading slash.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		router:  router,
		chain:   middleware.New(),
		handler: router,
	}
}

// Use appends mw to the chain. Register middleware before serving.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.chain.Use(mw)
	m.handler = m.chain.Apply(m.router)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rest := strings.TrimPrefix(req.URL.Path, m.prefix)
	if rest == "" {
		rest = "/"
	}
	m.handler.ServeHTTP(w, withPath(req, rest))
}

// withPath shallow-copies req with its URL path replaced.
func withPath(req *http.Request, path string) *http.Request {
	u := new(url.URL)
	*u = *req.URL
	u.Path = path
	u.RawPath = ""

	out := req.Clone(req.Context())
	out.URL = u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix is empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix %q needs a leading slash", prefix)
	case strings.Contains(prefix[1:], "/"):
		return fmt.Errorf("module prefix %q has more than one segment", prefix)
	}
	return nil
}
