package http

import (
	"encoding/json"
	"net/http"

	pnet "feedline/internal/platform/net"
)

// Endpoint returns the data to wrap in the envelope or the error to report
type Endpoint func(r *http.Request) (any, error)

// StatusCoder lets a successful result pick a status other than 200
type StatusCoder interface {
	StatusCode() int
}

// JSON writes v with status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve turns ep into a Handler that always answers with an envelope
func Serve(ep Endpoint) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := pnet.RequestID(r.Context())
		out, err := ep(r)
		if err != nil {
			env := pnet.Failure(err, reqID)
			JSON(w, env.StatusCode, env)
			return
		}
		status := http.StatusOK
		if sc, ok := out.(StatusCoder); ok && sc.StatusCode() != 0 {
			status = sc.StatusCode()
		}
		JSON(w, status, pnet.Success(status, out, reqID))
	}
}
