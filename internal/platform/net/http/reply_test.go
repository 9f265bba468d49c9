package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "feedline/internal/platform/errors"
	pnet "feedline/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type degraded struct{ Status string }

func (degraded) StatusCode() int { return http.StatusServiceUnavailable }

func serve(t *testing.T, ep Endpoint) (int, pnet.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimw.RequestIDKey, "rid-1"))
	rec := httptest.NewRecorder()
	Serve(ep)(rec, req)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	var env pnet.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env
}

func TestServe(t *testing.T) {
	cases := []struct {
		name   string
		ep     Endpoint
		status int
		code   perr.ErrorCode
		msg    string
		data   bool
	}{
		{"data", func(*http.Request) (any, error) { return map[string]int{"n": 2}, nil }, 200, 0, "", true},
		{"status override", func(*http.Request) (any, error) { return degraded{"fail"}, nil }, 503, 0, "", true},
		{"cursor", func(*http.Request) (any, error) {
			return nil, perr.Wrapf(errors.New("bad base64"), perr.ErrorCodeInvalidCursor, "cursor %q", "zz")
		}, 400, perr.ErrorCodeInvalidCursor, `cursor "zz"`, false},
		{"foreign", func(*http.Request) (any, error) { return nil, errors.New("boom") }, 500, perr.ErrorCodeUnknown, "boom", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, env := serve(t, c.ep)
			if status != c.status || env.StatusCode != c.status || env.RequestID != "rid-1" {
				t.Fatalf("status = %d env = %+v", status, env)
			}
			if env.Code != c.code || env.Error != c.msg || (env.Data != nil) != c.data {
				t.Fatalf("env = %+v", env)
			}
		})
	}
}
