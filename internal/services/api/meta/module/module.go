// Package module mounts the meta endpoints
package module

import (
	"time"

	"feedline/internal/core/version"
	modkit "feedline/internal/modkit"
	"feedline/internal/modkit/httpkit"

	metahttp "feedline/internal/services/api/meta/http"
)

// Module serves /meta
type Module struct {
	modkit.Mount
	StartedAt time.Time
}

// New builds the meta module, readiness pings deps.PG
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{StartedAt: time.Now()}
	m.Mount = modkit.NewMount("meta", "/meta", func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   m.StartedAt,
			PG:          deps.PG,
		})
	}, opts...)
	return m
}
