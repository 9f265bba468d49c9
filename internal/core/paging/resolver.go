package paging

import (
	"context"

	"feedline/internal/platform/logger"

	sq "github.com/Masterminds/squirrel"
)

// Filter narrows the base query for one feed; it may add joins and
// predicates but is not expected to order or limit ranked feeds
type Filter func(ctx context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error)

// Fetcher executes a query and maps every returned row
type Fetcher[N any] func(ctx context.Context, b sq.SelectBuilder) ([]N, error)

// State names one step of a resolve pass
type State string

// Resolve pass states, in order
const (
	StateArgsReceived State = "args_received"
	StatePageDerived  State = "page_derived"
	StateQueryBuilt   State = "query_built"
	StatePaged        State = "paged"
	StateExecuted     State = "executed"
	StateResultMapped State = "result_mapped"
)

// DefaultRandomFirst is the sample size of a RandomResolver with no default
const DefaultRandomFirst = 3

// exhauster is a page that can tell before any query that it is empty
type exhauster interface{ Exhausted() bool }

// Resolver runs one cursor paginated pass: derive the page, filter, page,
// fetch once, then trim and assemble the connection
type Resolver[P, N any] struct {
	Generator Generator[P, N]
	Apply     Applier[P]
	Fetch     Fetcher[N]
	Alias     string
}

// Resolve returns one page of the feed described by filter over base
// Fetch errors are returned as is; nothing is retried
func (r Resolver[P, N]) Resolve(ctx context.Context, args Args, base sq.SelectBuilder, filter Filter) (Connection[N], error) {
	log := logger.C(ctx).With().Str("component", "paging").Logger()
	step := func(s State) { log.Trace().Str("state", string(s)).Msg("resolve") }

	step(StateArgsReceived)
	page, err := r.Generator.ArgsToPage(args)
	if err != nil {
		return Connection[N]{}, err
	}

	step(StatePageDerived)
	if ex, ok := any(page).(exhauster); ok && ex.Exhausted() {
		step(StateResultMapped)
		return Assemble(r.Generator, page, args, nil), nil
	}
	q := base
	if filter != nil {
		if q, err = filter(ctx, base, r.Alias); err != nil {
			return Connection[N]{}, err
		}
	}

	step(StateQueryBuilt)
	q = r.Apply(args, page, q, r.Alias)

	step(StatePaged)
	if err := ctx.Err(); err != nil {
		return Connection[N]{}, err
	}
	nodes, err := r.Fetch(ctx, q)
	if err != nil {
		return Connection[N]{}, err
	}

	step(StateExecuted)
	conn := Assemble(r.Generator, page, args, nodes)

	step(StateResultMapped)
	return conn, nil
}

// Assemble builds a connection from untrimmed rows
func Assemble[P, N any](g Generator[P, N], page P, args Args, nodes []N) Connection[N] {
	hasNext := g.HasNextPage(page, len(nodes))
	nodes = g.Trim(page, nodes)

	conn := Connection[N]{
		Edges: make([]Edge[N], 0, len(nodes)),
		PageInfo: PageInfo{
			HasNextPage:     hasNext,
			HasPreviousPage: g.HasPreviousPage(page),
		},
	}
	for i, n := range nodes {
		conn.Edges = append(conn.Edges, Edge[N]{Node: n, Cursor: g.NodeToCursor(page, args, n, i)})
	}
	if len(conn.Edges) > 0 {
		conn.PageInfo.StartCursor = conn.Edges[0].Cursor
		conn.PageInfo.EndCursor = conn.Edges[len(conn.Edges)-1].Cursor
	}
	return conn
}

// RandomResolver samples up to N rows matching a filter with no paging state
type RandomResolver[N any] struct {
	DefaultFirst int
	MaxFirst     int
	Fetch        Fetcher[N]
	Alias        string
}

// Resolve returns at most first rows (DefaultFirst when absent) in random order
func (r RandomResolver[N]) Resolve(ctx context.Context, first *int, base sq.SelectBuilder, filter Filter) ([]N, error) {
	n := Limit(first, orDefault(r.DefaultFirst, DefaultRandomFirst), orDefault(r.MaxFirst, MaxFirst)) - 1

	q := base
	if filter != nil {
		var err error
		if q, err = filter(ctx, base, r.Alias); err != nil {
			return nil, err
		}
	}
	q = q.OrderBy("random()").Limit(uint64(n))

	logger.C(ctx).Trace().Str("component", "paging").Int("sample", n).Msg("random resolve")
	return r.Fetch(ctx, q)
}
