// Package middleware exposes the chi middlewares the api stack uses plus our own
// auth, access log and panic recovery
package middleware

import (
	"net/http"
	"time"

	pstrings "feedline/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the net/http middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID reuses X-Request-Id or assigns one
func RequestID() Middleware { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
func RealIP() Middleware { return chimw.RealIP }

// NoCache marks responses uncacheable; feed pages depend on now and the caller
func NoCache() Middleware { return chimw.NoCache }

// StripSlashes routes /feeds/source/ as /feeds/source
func StripSlashes() Middleware { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Compress gzips JSON responses at level
func Compress(level int) Middleware {
	return chimw.NewCompressor(level, "application/json").Handler
}

// CORSOptions are the go-chi/cors knobs we expose
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS applies o; empty method and header lists get the ones feed clients send
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.Or(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: pstrings.Or(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"}),
		MaxAge:         o.MaxAge,
	})
}
