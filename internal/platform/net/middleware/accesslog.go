package middleware

import (
	"net/http"
	"time"

	"feedline/internal/platform/logger"
	pnet "feedline/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestLog is swapped by tests to capture lines
var requestLog = logger.C

// AccessLogOptions tune AccessLogZerolog
type AccessLogOptions struct {
	// Slow raises requests at or above it to warn; zero never does
	Slow time.Duration
}

// AccessLogZerolog writes one line per request through the request scoped logger
func AccessLogZerolog(opt AccessLogOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), "")
			next.ServeHTTP(ww, r.WithContext(ctx))

			took := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := requestLog(ctx)
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && took >= opt.Slow:
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("request")
		})
	}
}
