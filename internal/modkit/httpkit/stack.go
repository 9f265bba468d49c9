package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"feedline/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api/v1 route runs behind, outermost first
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/api/v1/ping"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
