package repokit

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"feedline/internal/platform/store"
)

// fakeQ records statements; Tx runs fn on itself unless txErr is set
type fakeQ struct {
	execs   []string
	execErr error
	txErr   error
	txs     int
}

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return nil, f.execErr
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row        { return nil }

func (f *fakeQ) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.txs++
	if f.txErr != nil {
		return f.txErr
	}
	return fn(f)
}

type counter struct{ q Queryer }

func TestBindFunc(t *testing.T) {
	q := &fakeQ{}
	var b Binder[counter] = BindFunc[counter](func(q Queryer) counter { return counter{q: q} })
	if got := b.Bind(q); got.q != q {
		t.Fatal("Bind did not pass the queryer through")
	}
}

func TestWithTx(t *testing.T) {
	q := &fakeQ{}
	var seen Queryer
	if err := WithTx(context.Background(), q, func(in Queryer) error { seen = in; return nil }); err != nil {
		t.Fatal(err)
	}
	if seen != q || q.txs != 1 {
		t.Fatalf("seen = %v txs = %d", seen, q.txs)
	}

	boom := errors.New("begin failed")
	q = &fakeQ{txErr: boom}
	if err := WithTx(context.Background(), q, func(Queryer) error { return nil }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestWithBeginHooks(t *testing.T) {
	var order []string
	hook := func(name string, err error) BeginHook {
		return func(context.Context, Queryer) error {
			order = append(order, name)
			return err
		}
	}
	denied := errors.New("denied")

	cases := []struct {
		name    string
		hooks   []BeginHook
		want    []string
		wantErr error
	}{
		{"all run then fn", []BeginHook{hook("a", nil), hook("b", nil)}, []string{"a", "b", "fn"}, nil},
		{"failing hook stops", []BeginHook{hook("a", denied), hook("b", nil)}, []string{"a"}, denied},
		{"no hooks", nil, []string{"fn"}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			order = nil
			q := &fakeQ{}
			tx := WithBeginHooks(q, c.hooks...)
			err := tx.Tx(context.Background(), func(Queryer) error {
				order = append(order, "fn")
				return nil
			})
			if !errors.Is(err, c.wantErr) || !reflect.DeepEqual(order, c.want) {
				t.Fatalf("err = %v order = %v", err, order)
			}
		})
	}
}

func TestWithBeginHooks_DelegatesOutsideTx(t *testing.T) {
	q := &fakeQ{}
	tx := WithBeginHooks(q, ReadOnly)
	if _, err := tx.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(q.execs, []string{"SELECT 1"}) {
		t.Fatalf("execs = %v", q.execs)
	}
}

func TestReadOnly(t *testing.T) {
	q := &fakeQ{}
	if err := WithTx(context.Background(), WithBeginHooks(q, ReadOnly), func(Queryer) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(q.execs, []string{"SET TRANSACTION READ ONLY"}) {
		t.Fatalf("execs = %v", q.execs)
	}

	q = &fakeQ{execErr: errors.New("read only not allowed")}
	ran := false
	err := WithTx(context.Background(), WithBeginHooks(q, ReadOnly), func(Queryer) error { ran = true; return nil })
	if err == nil || ran {
		t.Fatalf("err = %v ran = %v", err, ran)
	}
}
