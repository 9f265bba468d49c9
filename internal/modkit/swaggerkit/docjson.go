// Package swaggerkit serves the OpenAPI document and the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"feedline/internal/core/version"
	"feedline/internal/platform/config"
	perr "feedline/internal/platform/errors"
)

// SpecMutator edits the decoded document before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register queues m for every served document, nil is ignored
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// skeleton is served until handler annotations have been generated
func skeleton() string {
	info := version.Info()
	return `{"swagger":"2.0","info":{"title":"` + info.Service + `","version":"` + info.Version + `"},"paths":{}}`
}

// BearerAuth declares the scheme protected routes reference
func BearerAuth(spec map[string]any) {
	child(child(spec, "components"), "securitySchemes")["BearerAuth"] = map[string]any{
		"type": "http", "scheme": "bearer", "bearerFormat": "JWT",
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func serveDocJSON() http.HandlerFunc {
	suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		toOAS3(spec, "/api/v1")
		if title, ok := child(spec, "info")["title"].(string); ok && suffix != "" {
			child(spec, "info")["title"] = title + " " + suffix
		}
		errorSchema(spec)
		defaultResponses(spec)
		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// toOAS3 pins the document to 3.0.3, the newest the UI renders, and adds a
// server entry for url when none is declared
func toOAS3(spec map[string]any, url string) {
	delete(spec, "swagger")
	spec["openapi"] = "3.0.3"
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func errorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	prop := func(typ string) map[string]any { return map[string]any{"type": typ} }
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"field":       prop("string"),
			"request_id":  prop("string"),
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func errorResponse(status int, code perr.ErrorCode, msg string, field string) map[string]any {
	example := map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"code":        int(code),
		"error":       msg,
		"request_id":  "feedline/abc-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// defaultResponses gives every operation a 400 and a 500 unless it documents its own
func defaultResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	defaults := map[string]map[string]any{
		"400": errorResponse(http.StatusBadRequest, perr.ErrorCodeValidation, "first must be 1 or greater", "first"),
		"500": errorResponse(http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered", ""),
	}
	for _, p := range paths {
		item, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, op := range item {
			if _, ok := op.(map[string]any); !ok || strings.HasPrefix(method, "x-") {
				continue
			}
			resps := child(op.(map[string]any), "responses")
			for status, r := range defaults {
				if _, ok := resps[status]; !ok {
					resps[status] = r
				}
			}
		}
	}
}
