// Package repokit is the glue between domain repos and the store seam
package repokit

import (
	"context"

	"feedline/internal/platform/store"
)

type (
	// Queryer is what a bound repo runs its statements on
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can open transactions
	TxRunner = store.TxRunner
	Rows     = store.Rows
	Row      = store.Row
	// CommandTag reports what Exec touched
	CommandTag = store.CommandTag
)

// Binder hands out a repo bound to one Queryer, the pool or an open tx
type Binder[T any] interface {
	Bind(q Queryer) T
}

// BindFunc is a Binder backed by a function
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// WithTx runs fn in one transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// BeginHook runs first inside every transaction of a hooked runner
type BeginHook func(ctx context.Context, q Queryer) error

// ReadOnly marks the transaction read only so every read shares one snapshot
// and writes fail
func ReadOnly(ctx context.Context, q Queryer) error {
	_, err := q.Exec(ctx, "SET TRANSACTION READ ONLY")
	return err
}

// WithBeginHooks returns inner with hooks run, in order, at the start of each Tx
// a failing hook aborts the transaction before fn runs
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
