// Package http adapts chi to the small router surface modules mount on and
// writes handler results as JSON envelopes
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is a plain net/http handler function
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules see of the mux
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(pattern string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	// Group shares the current path but takes its own middleware
	Group(fn func(Router))
	// Route nests fn under pattern
	Route(pattern string, fn func(Router))
	// Mux serves everything registered so far
	Mux() http.Handler
}

// AdaptChi exposes r as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ r chi.Router }

func (c chiRouter) Get(path string, h Handler)  { c.r.Get(path, h) }
func (c chiRouter) Post(path string, h Handler) { c.r.Post(path, h) }

func (c chiRouter) Handle(pattern string, h http.Handler) { c.r.Handle(pattern, h) }

func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Mux() http.Handler { return c.r }
