package paging

import (
	"encoding/base64"
	"strconv"
	"strings"

	perr "feedline/internal/platform/errors"
)

// Kind tags the ranking dimension a Marker resumes from
type Kind string

const (
	// KindScore resumes below a numeric score (popularity or discussion)
	KindScore Kind = "score"

	// KindTime resumes before an epoch millisecond creation time
	KindTime Kind = "time"
)

// ErrInvalidCursor is the sentinel behind every cursor failure
var ErrInvalidCursor = perr.New(perr.ErrorCodeInvalidCursor, "invalid cursor")

// Marker is a decoded resume point; the zero value means first page
type Marker struct {
	Kind  Kind
	Value int64
}

// IsZero reports whether m is the absent marker
func (m Marker) IsZero() bool { return m.Kind == "" }

// Encode renders m as an opaque token
func Encode(m Marker) string {
	raw := string(m.Kind) + ":" + strconv.FormatInt(m.Value, 10)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode
// an empty token yields the absent marker
func Decode(token string) (Marker, error) {
	if token == "" {
		return Marker{}, nil
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Marker{}, invalidCursor("not base64")
	}
	kind, value, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Marker{}, invalidCursor("missing kind")
	}
	k := Kind(kind)
	if k != KindScore && k != KindTime {
		return Marker{}, invalidCursor("unknown kind %q", kind)
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return Marker{}, invalidCursor("bad %s value", kind)
	}
	return Marker{Kind: k, Value: v}, nil
}

// EncodeOffset renders an ordinal position as an opaque token
func EncodeOffset(n int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(n)))
}

// DecodeOffset parses an offset token; empty means 0
// A bare decimal string is accepted as well as the encoded form
func DecodeOffset(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(token); err == nil {
		if n, ok := parseOffset(string(raw)); ok {
			return n, nil
		}
	}
	if n, ok := parseOffset(token); ok {
		return n, nil
	}
	return 0, invalidCursor("bad offset")
}

func parseOffset(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func invalidCursor(format string, a ...any) error {
	return perr.Wrapf(ErrInvalidCursor, perr.ErrorCodeInvalidCursor, "cursor: "+format, a...)
}
