package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"feedline/internal/platform/config"
	"feedline/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ShutdownGrace bounds how long Run waits for in flight requests once ctx ends
var ShutdownGrace = 15 * time.Second

// Server owns the root chi mux and the listener
type Server struct {
	mux *chi.Mux
	srv *http.Server
}

// NewServer listens on ADDR, else on PORT, else :4000, all read through cfg
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayString("ADDR", ":"+cfg.MayString("PORT", "4000"))
	mux := chi.NewRouter()
	return &Server{
		mux: mux,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router is the root Router routes are mounted on
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is done, then drains within ShutdownGrace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
