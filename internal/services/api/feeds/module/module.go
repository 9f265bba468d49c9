// Package module mounts the feeds endpoints
package module

import (
	modkit "feedline/internal/modkit"
	"feedline/internal/modkit/httpkit"
	feedsdom "feedline/internal/services/api/feeds/domain"
	feedshttp "feedline/internal/services/api/feeds/http"
	feedsrepo "feedline/internal/services/api/feeds/repo"
	feedssvc "feedline/internal/services/api/feeds/service"
)

// Module serves /feeds
type Module struct {
	modkit.Mount
	svc feedssvc.Service
}

// New builds the feeds service on deps.PG, tuned by CORE_FEEDS_* in deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{svc: feedssvc.New(deps.PG, feedsrepo.NewPG(), FromConfig(deps.Cfg))}
	m.Mount = modkit.NewMount("feeds", "/feeds", func(r httpkit.Router) {
		feedshttp.Register(r, m.svc, deps.Auth)
	}, opts...)
	return m
}

// Service is the feed resolver other modules can call directly
func (m *Module) Service() feedsdom.ServicePort { return m.svc }
