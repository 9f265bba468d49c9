// Package store opens postgres and exposes it to repos through a small seam
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedline/internal/platform/logger"
)

// Row is a single result waiting to be scanned
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set, Columns names what Scan fills
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write touched
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what repos run statements on, the pool or an open tx
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner commits fn's work when it returns nil and rolls back otherwise
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Config lists the backends to open
type Config struct {
	// AppName shows up as application_name in pg_stat_activity
	AppName string
	PG      PGConfig
}

// PGConfig configures the pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// LogSQL logs every statement, SlowQueryMs marks the slow ones
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the boot ping loop, 0 means 8
	ConnectRetries int
	// PingTimeout bounds each ping, 0 means 3s
	PingTimeout time.Duration
}

// Store holds the opened backends, a disabled backend stays nil
type Store struct {
	Log logger.Logger
	PG  TxRunner

	closers []func()
}

// Option tweaks Open
type Option func(*Store)

// WithLogger sets the logger the tracer and boot loop write to
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.Log = l }
}

// Open brings up every enabled backend and waits until it answers
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		o(s)
	}
	if !cfg.PG.Enabled {
		return s, nil
	}
	pg, err := openPG(ctx, cfg, s.Log)
	if err != nil {
		return nil, fmt.Errorf("pg: %w", err)
	}
	s.PG = pg
	s.closers = append(s.closers, pg.pool.Close)
	return s, nil
}

// Ping checks every open backend
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if p, ok := s.PG.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases backends in reverse open order
func (s *Store) Close(context.Context) error {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
	return nil
}
