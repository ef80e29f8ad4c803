package api

import (
	"github.com/JaimeStill/promptbase/internal/prompts"
	"github.com/JaimeStill/promptbase/pkg/routes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, opts ...prompts.Option) *Domain {
	return &Domain{
		Prompts: prompts.New(
			runtime.Database.Connection(),
			runtime.Database.Dialect(),
			runtime.Logger,
			runtime.Pagination,
			opts...,
		),
	}
}

// Groups returns the route groups of every domain system.
func (d *Domain) Groups() []routes.Group {
	return []routes.Group{
		d.Prompts.Handler().Routes(),
	}
}
