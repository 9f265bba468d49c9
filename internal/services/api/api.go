// Package api assembles the feedline http api from its modules
package api

import (
	"feedline/internal/platform/config"
	"feedline/internal/platform/logger"
	phttp "feedline/internal/platform/net/http"
	"feedline/internal/platform/net/middleware"
	"feedline/internal/platform/store"

	"feedline/internal/modkit"
	"feedline/internal/modkit/httpkit"
	"feedline/internal/modkit/swaggerkit"

	feedsmod "feedline/internal/services/api/feeds/module"
	metamod "feedline/internal/services/api/meta/module"
)

// Options are what Mount wires the modules from
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Auth           middleware.AuthPort
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount puts every module under /api/v1 behind the common stack, plus the docs
// and profiler when enabled
func Mount(r phttp.Router, opt Options) []modkit.Module {
	deps := modkit.Deps{Cfg: opt.Config, Auth: opt.Auth, Log: *logger.Named("api")}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	mods := []modkit.Module{
		metamod.New(deps),
		feedsmod.New(deps),
	}

	if opt.EnableSwagger {
		swaggerkit.Register(swaggerkit.BearerAuth)
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(v1 httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(v1)
			deps.Log.Info().Str("module", m.Name()).Str("prefix", "/api/v1"+m.Prefix()).Msg("module mounted")
		}
	})
	return mods
}
