package module

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	modkit "feedline/internal/modkit"
	"feedline/internal/modkit/httpkit"
	"feedline/internal/platform/config"
	phttp "feedline/internal/platform/net/http"
	"feedline/internal/platform/store"
	"feedline/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type nopTx struct{ queries int }

func (n *nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (n *nopTx) Query(context.Context, string, ...any) (store.Rows, error) {
	n.queries++
	return nil, context.Canceled
}
func (n *nopTx) QueryRow(context.Context, string, ...any) store.Row { return nil }
func (n *nopTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	return fn(n)
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_FEEDS_RANDOM_DEFAULT", "4")
	t.Setenv("CORE_FEEDS_RANDOM_MAX", "20")

	o := FromConfig(config.New())
	if o.RandomDefault != 4 || o.RandomMax != 20 || o.SuggestionsLimit != 5 {
		t.Fatalf("options = %+v", o)
	}
}

func TestNew_MountsUnderPrefix(t *testing.T) {
	tx := &nopTx{}
	m := New(modkit.Deps{Cfg: config.New(), PG: tx})

	var _ modkit.Module = m
	if m.Name() != "feeds" || m.Prefix() != "/feeds" {
		t.Fatalf("name=%q prefix=%q", m.Name(), m.Prefix())
	}
	if m.Service() == nil {
		t.Fatal("Service() = nil")
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)

	// blank queries never reach the datastore
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodPost, "/feeds/search", strings.NewReader(`{"query":"&&"}`))
	r.Mux().ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusOK || tx.queries != 0 {
		t.Fatalf("search status=%d queries=%d body=%s", rec.Code, tx.queries, rec.Body.String())
	}
	testkit.MustContain(t, rec.Body.String(), `"edges":[]`)

	// protected routes without a user reject
	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/feeds/settings", nil))
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("settings status = %d", rec.Code)
	}
}

func TestNew_Options(t *testing.T) {
	var hits []string
	tag := func(name string) func(stdhttp.Handler) stdhttp.Handler {
		return func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
				hits = append(hits, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	m := New(modkit.Deps{Cfg: config.New(), PG: &nopTx{}},
		modkit.WithPrefix("v2/feeds/"),
		modkit.WithMiddlewares(tag("a")),
		modkit.WithRoutes(func(r httpkit.Router) {
			httpkit.Get(r, "/extra", func(*stdhttp.Request) (any, error) { return "ok", nil })
		}),
	)
	if m.Prefix() != "/v2/feeds" {
		t.Fatalf("prefix = %q", m.Prefix())
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v2/feeds/extra", nil))
	if rec.Code != stdhttp.StatusOK || len(hits) != 1 {
		t.Fatalf("status=%d hits=%v", rec.Code, hits)
	}
}
