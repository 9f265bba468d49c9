// Package httpkit is the routing vocabulary modules register handlers with
package httpkit

import (
	"net/http"
	"strings"

	phttp "feedline/internal/platform/net/http"
	"feedline/internal/platform/net/http/bind"
	pnet "feedline/internal/platform/net"
)

type (
	// Router is the router modules mount on
	Router = phttp.Router
	// Envelope is the body every route answers with
	Envelope = pnet.Envelope
)

// PostJSON routes POST path to fn with the body decoded and validated as T
// bind failures are answered before fn runs
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.Serve(func(req *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](req)
		if err != nil {
			return nil, err
		}
		return fn(req, in)
	}))
}

// Get routes GET path to fn
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, phttp.Serve(fn))
}

// MountAPIV1 nests mount under /api/v1 behind mws
func MountAPIV1(r Router, mws []func(http.Handler) http.Handler, mount func(Router)) {
	mountVersion(r, "v1", mws, mount)
}

func mountVersion(r Router, version string, mws []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mws) > 0 {
			api.Use(mws...)
		}
		mount(api)
	})
}
