// Package net holds transport neutral request state and the response envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type userKey struct{}

// WithUser stores the authenticated user id; an empty id leaves ctx unchanged
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID is the id stored by WithUser or ""
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userKey{}).(string)
	return uid
}

// RequestID is the id the request id middleware assigned or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
