// Package logger owns the process zerolog logger and its request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"feedline/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logger type handed around the codebase
type Logger = zerolog.Logger

// Options shape the root logger
type Options struct {
	Level   string
	Format  string // console or json
	Service string
	Caller  bool
	Writer  io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:   env.Get("LEVEL", "debug"),
		Format:  strings.ToLower(env.Get("FORMAT", "console")),
		Service: env.Get("SERVICE", ""),
		Caller:  env.GetBool("CALLER", false),
	}
}

// New builds a logger from o without touching the process root
func New(o Options) Logger {
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	if o.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(o.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}
	zc := zerolog.New(w).Level(lvl).With().Timestamp()
	if o.Service != "" {
		zc = zc.Str("service", o.Service)
	}
	if o.Caller {
		zc = zc.Caller()
	}
	return zc.Logger()
}

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Init installs the process root; only the first call has any effect
func Init(o Options) *Logger {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(o)
		root.Store(&l)
	})
	return root.Load()
}

// Get returns the process root, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	return Init(FromEnv())
}

// Named returns a root child tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

type scopeKey struct{}

type scope struct{ requestID, userID string }

// WithRequest remembers the request and user ids so C can stamp them on lines
// empty values leave what is already on ctx
func WithRequest(ctx context.Context, requestID, userID string) context.Context {
	s, _ := ctx.Value(scopeKey{}).(scope)
	if requestID != "" {
		s.requestID = requestID
	}
	if userID != "" {
		s.userID = userID
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// C returns the root logger carrying whatever WithRequest put on ctx
func C(ctx context.Context) *Logger {
	l := scoped(*Get(), ctx)
	return &l
}

func scoped(base Logger, ctx context.Context) Logger {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		return base
	}
	zc := base.With()
	if s.requestID != "" {
		zc = zc.Str("request_id", s.requestID)
	}
	if s.userID != "" {
		zc = zc.Str("user_id", s.userID)
	}
	return zc.Logger()
}
