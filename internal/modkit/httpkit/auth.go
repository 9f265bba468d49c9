package httpkit

import (
	"net/http"
	"strings"

	perr "feedline/internal/platform/errors"
	pnet "feedline/internal/platform/net"
	"feedline/internal/platform/net/middleware"
)

// TokenFunc maps a raw bearer token to the user it was issued to
type TokenFunc func(token string) (userID string, err error)

// Port is a middleware.AuthPort reading "Authorization: Bearer <token>"
type Port struct{ parse TokenFunc }

// NewPortFunc builds a Port around fn
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse returns the caller's user id; every failure is a 401 and the parser's
// own error is not echoed back
func (p *Port) Parse(r *http.Request) (string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	if p == nil || p.parse == nil {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.parse(token)
	if err != nil || uid == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}

// Protected registers fn's routes behind bearer auth resolved by p
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(g Router) {
		g.Use(middleware.Auth(p))
		fn(g)
	})
}

// User is the id Protected put on the request, 401 outside protected routes
func User(r *http.Request) (string, error) {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid, nil
	}
	return "", perr.Unauthorizedf("missing bearer token")
}
