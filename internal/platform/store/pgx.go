package store

import (
	"context"
	"fmt"
	"time"

	"feedline/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var newPool = pgxpool.NewWithConfig

// pgxQuerier is the surface *pgxpool.Pool and pgx.Tx share
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct{ q pgxQuerier }

func (q querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return q.q.Exec(ctx, sql, args...)
}

func (q querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

func (q querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return q.q.QueryRow(ctx, sql, args...)
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}

// pgDB is the TxRunner over a pool
type pgDB struct {
	querier
	pool *pgxpool.Pool
}

func (d *pgDB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		return fn(querier{tx})
	})
}

func (d *pgDB) Ping(ctx context.Context) error { return d.pool.Ping(ctx) }

func poolConfig(cfg Config, log logger.Logger) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.PG.URL)
	if err != nil {
		return nil, err
	}
	if cfg.PG.MaxConns > 0 {
		pcfg.MaxConns = cfg.PG.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.PG.LogSQL {
		pcfg.ConnConfig.Tracer = NewTracer(log, time.Duration(cfg.PG.SlowQueryMs)*time.Millisecond)
	}
	return pcfg, nil
}

func openPG(ctx context.Context, cfg Config, log logger.Logger) (*pgDB, error) {
	pcfg, err := poolConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, pool.Ping, cfg.PG, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &pgDB{querier: querier{pool}, pool: pool}, nil
}

// waitReady pings with doubling backoff, capped at 2s, until ping succeeds
func waitReady(ctx context.Context, ping func(context.Context) error, cfg PGConfig, log logger.Logger) error {
	retries, timeout := cfg.ConnectRetries, cfg.PingTimeout
	if retries <= 0 {
		retries = 8
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("postgres not ready")
		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 2*time.Second)
	}
	return fmt.Errorf("not ready after %d attempts: %w", retries, err)
}
