// Package modkit is how api modules are declared and mounted
package modkit

import (
	"net/http"

	"feedline/internal/modkit/httpkit"
	"feedline/internal/modkit/repokit"
	"feedline/internal/platform/config"
	"feedline/internal/platform/logger"
	"feedline/internal/platform/net/middleware"
	str "feedline/internal/platform/strings"
)

// Deps are the shared dependencies every module is built from
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	Auth middleware.AuthPort
}

// Module is an api module mounted under its own prefix
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r httpkit.Router)
}

// Option adjusts a Mount before it is used
type Option func(*Mount)

// WithPrefix mounts the module somewhere other than its default prefix
func WithPrefix(p string) Option { return func(m *Mount) { m.prefix = p } }

// WithMiddlewares runs mws on every route of the module
func WithMiddlewares(mws ...func(http.Handler) http.Handler) Option {
	return func(m *Mount) { m.mws = append(m.mws, mws...) }
}

// WithRoutes registers extra routes next to the module's own
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(m *Mount) { m.extra = append(m.extra, fn) }
}

// Mount implements Module; modules embed it and hand it their route registrar
type Mount struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
	extra    []func(httpkit.Router)
}

// NewMount names a module, sets its default prefix and the function registering its routes
func NewMount(name, prefix string, register func(httpkit.Router), opts ...Option) Mount {
	m := Mount{name: name, prefix: prefix, register: register}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Name panics when the module was built without one
func (m Mount) Name() string { return str.MustString(m.name, "module name") }

// Prefix is the normalized mount path, e.g. /feeds
func (m Mount) Prefix() string { return str.MustPrefix(m.prefix) }

// MountRoutes registers the module under Prefix on r
func (m Mount) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(sub httpkit.Router) {
		if len(m.mws) > 0 {
			sub.Use(m.mws...)
		}
		if m.register != nil {
			m.register(sub)
		}
		for _, fn := range m.extra {
			fn(sub)
		}
	})
}
