//go:build integration_pg

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func pgContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env:          map[string]string{"POSTGRES_PASSWORD": "postgres"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
}

func TestIntegration_PG(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{AppName: "feedline-test", PG: PGConfig{Enabled: true, URL: pgContainer(t), MaxConns: 2, LogSQL: true}}, WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping = %v", err)
	}
	if _, err := s.PG.Exec(ctx, "create table kv (k text primary key, v bigint not null)"); err != nil {
		t.Fatal(err)
	}

	t.Run("tx commits", func(t *testing.T) {
		err := s.PG.Tx(ctx, func(q RowQuerier) error {
			tag, err := q.Exec(ctx, "insert into kv values ('a', 1), ('b', 2)")
			if err == nil && tag.RowsAffected() != 2 {
				err = fmt.Errorf("affected %d", tag.RowsAffected())
			}
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("tx rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.PG.Tx(ctx, func(q RowQuerier) error {
			if _, err := q.Exec(ctx, "insert into kv values ('c', 3)"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
		var n int
		if err := s.PG.QueryRow(ctx, "select count(*) from kv").Scan(&n); err != nil || n != 2 {
			t.Fatalf("count = %d err = %v", n, err)
		}
	})

	t.Run("scan by column name", func(t *testing.T) {
		type kv struct {
			K string `db:"k"`
			V int64  `db:"v"`
		}
		got, err := StructsByName[kv](ctx, s.PG, "select v, k from kv order by k")
		if err != nil || len(got) != 2 || got[1] != (kv{K: "b", V: 2}) {
			t.Fatalf("got %+v err %v", got, err)
		}
	})

	t.Run("application name", func(t *testing.T) {
		var name string
		if err := s.PG.QueryRow(ctx, "select current_setting('application_name')").Scan(&name); err != nil || name != "feedline-test" {
			t.Fatalf("name = %q err = %v", name, err)
		}
	})
}
