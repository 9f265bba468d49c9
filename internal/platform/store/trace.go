package store

import (
	"context"
	"strings"
	"time"

	"feedline/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer logs every statement the pool runs
// statements at or over slow log at warn, failures at error
type Tracer struct {
	log  logger.Logger
	slow time.Duration
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer logs through log at debug or above regardless of the global level
// slow <= 0 never marks a statement slow
func NewTracer(log logger.Logger, slow time.Duration) *Tracer {
	return &Tracer{
		log:  log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		slow: slow,
		now:  time.Now,
	}
}

type traceKey struct{}

type traceStart struct {
	at   time.Time
	sql  string
	args []any
}

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{at: t.now(), sql: d.SQL, args: d.Args})
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	took := t.now().Sub(st.at)
	slow := t.slow > 0 && took >= t.slow

	ev := t.log.Debug()
	switch {
	case d.Err != nil:
		ev = t.log.Error().Err(d.Err)
	case slow:
		ev = t.log.Warn()
	}
	ev.Dur("took", took).
		Bool("slow", slow).
		Str("sql", squash(st.sql)).
		Interface("args", st.args).
		Int64("rows", d.CommandTag.RowsAffected()).
		Msg("pg query")
}

// squash folds runs of whitespace into one space
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }
