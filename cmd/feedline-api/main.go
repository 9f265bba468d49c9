// @title         Feedline API
// @version       0.1.0
// @description   Cursor paged ranked feeds, search, and random samples
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feedline/internal/modkit/httpkit"
	"feedline/internal/platform/auth"
	"feedline/internal/platform/config"
	"feedline/internal/platform/logger"
	phttp "feedline/internal/platform/net/http"
	"feedline/internal/platform/store"

	"feedline/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	// bring up logging early
	l := logger.Get()

	// bearer tokens are HS256 JWTs whose subject is the user id
	var vopts []auth.Option
	if iss := apiCfg.MayString("JWT_ISSUER", ""); iss != "" {
		vopts = append(vopts, auth.WithIssuer(iss))
	}
	verifier, err := auth.NewVerifier(apiCfg.MustString("JWT_SECRET"), vopts...)
	if err != nil {
		l.Panic().Err(err).Msg("auth.NewVerifier failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "feedline-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),

				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 8),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Auth:           httpkit.NewPortFunc(verifier.UserID),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	l.Info().Str("addr", srv.Addr()).Msg("listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
