package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var quiet = zerolog.New(io.Discard)

func TestOpen_Disabled(t *testing.T) {
	s, err := Open(context.Background(), Config{PG: PGConfig{URL: "://bad"}}, WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	if s.PG != nil {
		t.Fatalf("PG = %T, want nil", s.PG)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping = %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close = %v", err)
	}
}

func TestOpen_BadURL(t *testing.T) {
	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, WithLogger(quiet))
	if err == nil || s != nil {
		t.Fatalf("Open = %v, %v", s, err)
	}
	if !strings.HasPrefix(err.Error(), "pg: ") {
		t.Fatalf("err = %v", err)
	}
}

func TestPing_NilStore(t *testing.T) {
	var s *Store
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("nil store should not ping")
	}
}

func TestClose_ReverseOrder(t *testing.T) {
	var order []int
	s := &Store{}
	for i := range 3 {
		s.closers = append(s.closers, func() { order = append(order, i) })
	}
	_ = s.Close(context.Background())
	_ = s.Close(context.Background())
	if len(order) != 3 || order[0] != 2 || order[2] != 0 {
		t.Fatalf("order = %v", order)
	}
}

func TestPoolConfig(t *testing.T) {
	cfg := Config{AppName: "feedline", PG: PGConfig{URL: "postgres://u:p@localhost:5432/db", MaxConns: 7, LogSQL: true, SlowQueryMs: 20}}
	pcfg, err := poolConfig(cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if pcfg.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", pcfg.MaxConns)
	}
	if got := pcfg.ConnConfig.RuntimeParams["application_name"]; got != "feedline" {
		t.Fatalf("application_name = %q", got)
	}
	tr, ok := pcfg.ConnConfig.Tracer.(*Tracer)
	if !ok || tr.slow != 20*time.Millisecond {
		t.Fatalf("tracer = %#v", pcfg.ConnConfig.Tracer)
	}

	cfg.PG.LogSQL = false
	pcfg, _ = poolConfig(cfg, quiet)
	if pcfg.ConnConfig.Tracer != nil {
		t.Fatal("tracer set with LogSQL off")
	}
}

func TestWaitReady(t *testing.T) {
	down := errors.New("connection refused")
	cases := []struct {
		name    string
		fails   int
		retries int
		wantErr bool
		calls   int
	}{
		{"first try", 0, 3, false, 1},
		{"after two failures", 2, 3, false, 3},
		{"gives up", 5, 2, true, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			calls := 0
			ping := func(context.Context) error {
				calls++
				if calls <= c.fails {
					return down
				}
				return nil
			}
			err := waitReady(context.Background(), ping, PGConfig{ConnectRetries: c.retries, PingTimeout: time.Second}, quiet)
			if (err != nil) != c.wantErr || calls != c.calls {
				t.Fatalf("err = %v calls = %d", err, calls)
			}
			if c.wantErr && !errors.Is(err, down) {
				t.Fatalf("cause lost: %v", err)
			}
		})
	}
}

func TestWaitReady_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ping := func(context.Context) error { cancel(); return errors.New("down") }
	if err := waitReady(ctx, ping, PGConfig{ConnectRetries: 5}, quiet); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
