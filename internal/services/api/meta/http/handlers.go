// Package http serves the meta endpoints: liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"feedline/internal/core/paging"
	"feedline/internal/core/version"
	"feedline/internal/modkit/httpkit"
	perr "feedline/internal/platform/errors"
)

// ReadyTimeout bounds each dependency check
var ReadyTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it answers
type Pinger interface {
	Ping(context.Context) error
}

// Deps are what the handlers report on
// PG is checked only when it implements Pinger
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	h := handlers{Deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/paging", h.paging)
}

type handlers struct {
	Deps
	now func() time.Time
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// HealthResponse says the process is up
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"feedline-api"`
	Started string `json:"started" example:"2026-10-01T08:00:00Z"`
	Now     string `json:"now"     example:"2026-10-01T08:05:00Z"`
}

// @Summary  Liveness
// @Tags     Meta
// @Produce  json
// @Success  200 {object} HealthResponse
// @Router   /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(h.now())}, nil
}

// Check statuses
const (
	CheckOK          = "ok"
	CheckSkipped     = "skipped"
	CheckUnknown     = "unknown"
	CheckUnavailable = "unavailable"
	CheckFail        = "fail"
)

// ReadyCheck is one dependency's answer
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"failed to connect to host=db"`
}

// ReadyResponse is served with 503 when any check is unavailable or failed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T08:05:00Z"`
}

// StatusCode lets load balancers act on readiness without reading the body
func (r ReadyResponse) StatusCode() int {
	if r.Status == "fail" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func checkPing(ctx context.Context, name string, dep any) ReadyCheck {
	if dep == nil {
		return ReadyCheck{Name: name, Status: CheckSkipped}
	}
	p, ok := dep.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: CheckUnknown}
	}
	ctx, cancel := context.WithTimeout(ctx, ReadyTimeout)
	defer cancel()
	switch err := p.Ping(ctx); {
	case err == nil:
		return ReadyCheck{Name: name, Status: CheckOK}
	case perr.IsConnectionUnavailable(err):
		return ReadyCheck{Name: name, Status: CheckUnavailable, Error: err.Error()}
	default:
		return ReadyCheck{Name: name, Status: CheckFail, Error: err.Error()}
	}
}

// @Summary  Readiness with dependency checks
// @Tags     Meta
// @Produce  json
// @Success  200 {object} ReadyResponse
// @Failure  503 {object} ReadyResponse
// @Router   /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	checks := []ReadyCheck{checkPing(r.Context(), "pg", h.PG)}

	overall := "ok"
	for _, c := range checks {
		switch c.Status {
		case CheckFail, CheckUnavailable:
			overall = "fail"
		case CheckOK:
		default:
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}
	return ReadyResponse{Status: overall, Checks: checks, Now: stamp(h.now())}, nil
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"feedline-api"`
	Started string `json:"started" example:"2026-10-01T08:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary  Service uptime
// @Tags     Meta
// @Produce  json
// @Success  200 {object} ServiceResponse
// @Router   /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(h.now().Sub(h.StartedAt) / time.Second),
	}, nil
}

// PagingResponse is the page size contract clients page against
type PagingResponse struct {
	DefaultFirst int      `json:"default_first" example:"30"`
	MaxFirst     int      `json:"max_first"     example:"50"`
	Rankings     []string `json:"rankings"      example:"POPULARITY"`
}

// @Summary  Page size limits and rankings
// @Tags     Meta
// @Produce  json
// @Success  200 {object} PagingResponse
// @Router   /meta/paging [get]
func (h handlers) paging(*http.Request) (any, error) {
	return PagingResponse{
		DefaultFirst: paging.DefaultFirst,
		MaxFirst:     paging.MaxFirst,
		Rankings:     []string{string(paging.RankingPopularity), string(paging.RankingTime)},
	}, nil
}
