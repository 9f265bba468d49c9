package middleware

import (
	"net/http"

	"feedline/internal/platform/logger"
	pnet "feedline/internal/platform/net"
	phttp "feedline/internal/platform/net/http"
)

// AuthPort resolves the caller of a request
type AuthPort interface {
	Parse(r *http.Request) (userID string, err error)
}

// Auth answers with the port's error envelope when the caller cannot be
// resolved, otherwise puts the user id on the context and request logger
// a nil port lets everything through
func Auth(p AuthPort) Middleware {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := p.Parse(r)
			if err != nil {
				env := pnet.Failure(err, pnet.RequestID(r.Context()))
				phttp.JSON(w, env.StatusCode, env)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
