package middleware

import (
	"net/http"
	"runtime/debug"

	perr "feedline/internal/platform/errors"
	pnet "feedline/internal/platform/net"
	phttp "feedline/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a logged 500 envelope
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			requestLog(r.Context()).Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			env := pnet.Failure(perr.New(perr.ErrorCodePanic, "panic recovered"), reqID)
			phttp.JSON(w, env.StatusCode, env)
		}()
		next.ServeHTTP(w, r)
	})
}
