// Package strings holds small string helpers used during wiring
package strings

import std "strings"

// Or returns in unless it is empty, then def
func Or[T any](in, def []T) []T {
	if len(in) > 0 {
		return in
	}
	return def
}

// MustString panics with "<what> is required" when s is blank
func MustString(s, what string) string {
	if std.TrimSpace(s) == "" {
		panic(what + " is required")
	}
	return s
}

// MustPrefix turns " feeds/ " into "/feeds"; a bare "/" panics
func MustPrefix(s string) string {
	p := std.Trim(std.TrimSpace(s), "/")
	if p == "" {
		panic("route prefix is required")
	}
	return "/" + p
}
