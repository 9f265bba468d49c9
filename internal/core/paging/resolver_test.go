package paging

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var limitRE = regexp.MustCompile(`LIMIT (\d+)`)

// memTable answers the queries ApplyFeedPaging builds against an in-memory set
type memTable struct {
	rows    []post
	queries []string
}

func (m *memTable) fetch(ctx context.Context, b sq.SelectBuilder) ([]post, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	m.queries = append(m.queries, sql)

	byTime := strings.Contains(sql, "ORDER BY p.created_at DESC")
	rows := slices.Clone(m.rows)
	slices.SortStableFunc(rows, func(a, b post) int {
		if byTime {
			return b.at.Compare(a.at)
		}
		return int(b.score - a.score)
	})

	var out []post
	for _, r := range rows {
		switch {
		case strings.Contains(sql, "p.score < $"):
			if r.score >= args[len(args)-1].(int64) {
				continue
			}
		case strings.Contains(sql, "p.created_at < $"):
			if !r.at.Before(args[len(args)-1].(time.Time)) {
				continue
			}
		}
		out = append(out, r)
	}

	match := limitRE.FindStringSubmatch(sql)
	if match == nil {
		return out, nil
	}
	n, _ := strconv.Atoi(match[1])
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func newFeedResolver(m *memTable) Resolver[RankedPage, post] {
	return Resolver[RankedPage, post]{
		Generator: FeedGenerator[post]{},
		Apply:     ApplyFeedPaging,
		Fetch:     m.fetch,
		Alias:     "p",
	}
}

func base() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("p.id").From("post p")
}

func ids(c Connection[post]) []string {
	out := make([]string, 0, len(c.Edges))
	for _, n := range c.Nodes() {
		out = append(out, n.id)
	}
	return out
}

func TestResolve_TimeScenario(t *testing.T) {
	m := &memTable{rows: []post{
		{id: "a", at: time.UnixMilli(300)},
		{id: "b", at: time.UnixMilli(200)},
		{id: "c", at: time.UnixMilli(100)},
	}}
	r := newFeedResolver(m)
	ctx := context.Background()

	page1, err := r.Resolve(ctx, Args{First: intp(2), Ranking: RankingTime}, base(), nil)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if got := ids(page1); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("page1 = %v", got)
	}
	if !page1.PageInfo.HasNextPage || page1.PageInfo.HasPreviousPage {
		t.Fatalf("page1 info = %+v", page1.PageInfo)
	}
	if want := Encode(Marker{Kind: KindTime, Value: 200}); page1.PageInfo.EndCursor != want {
		t.Fatalf("end cursor = %q, want %q", page1.PageInfo.EndCursor, want)
	}
	if page1.PageInfo.StartCursor != page1.Edges[0].Cursor {
		t.Fatalf("start cursor mismatch")
	}

	page2, err := r.Resolve(ctx, Args{First: intp(2), Ranking: RankingTime, After: page1.PageInfo.EndCursor}, base(), nil)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if got := ids(page2); !slices.Equal(got, []string{"c"}) {
		t.Fatalf("page2 = %v", got)
	}
	if page2.PageInfo.HasNextPage || !page2.PageInfo.HasPreviousPage {
		t.Fatalf("page2 info = %+v", page2.PageInfo)
	}
}

func TestResolve_TiedScoresSkipAcrossBoundary(t *testing.T) {
	m := &memTable{rows: []post{
		{id: "a", score: 50},
		{id: "b", score: 50},
		{id: "c", score: 10},
	}}
	r := newFeedResolver(m)
	ctx := context.Background()

	page1, err := r.Resolve(ctx, Args{First: intp(1)}, base(), nil)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if len(page1.Edges) != 1 || page1.PageInfo.EndCursor != Encode(Marker{Kind: KindScore, Value: 50}) {
		t.Fatalf("page1 = %+v", page1)
	}

	page2, err := r.Resolve(ctx, Args{First: intp(1), After: page1.PageInfo.EndCursor}, base(), nil)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	// the second row scored 50 is never delivered: the resume predicate is strict
	if got := ids(page2); !slices.Equal(got, []string{"c"}) {
		t.Fatalf("page2 = %v, want [c]", got)
	}
	if !strings.Contains(m.queries[1], "p.score < $1") {
		t.Fatalf("page2 query = %s", m.queries[1])
	}
}

func TestResolve_RoundTripCoversEveryRow(t *testing.T) {
	var rows []post
	for i := 1; i <= 23; i++ {
		rows = append(rows, post{
			id:    strconv.Itoa(i),
			score: int64(i * 3),
			at:    time.UnixMilli(int64(1000 + i*7)),
		})
	}

	for _, ranking := range []Ranking{RankingPopularity, RankingTime} {
		m := &memTable{rows: rows}
		r := newFeedResolver(m)

		var seen []string
		after := ""
		for pages := 0; ; pages++ {
			if pages > 10 {
				t.Fatalf("%s: pagination did not terminate", ranking)
			}
			conn, err := r.Resolve(context.Background(), Args{First: intp(5), Ranking: ranking, After: after}, base(), nil)
			if err != nil {
				t.Fatalf("%s: %v", ranking, err)
			}
			seen = append(seen, ids(conn)...)
			if !conn.PageInfo.HasNextPage {
				break
			}
			after = conn.PageInfo.EndCursor
		}

		if len(seen) != len(rows) {
			t.Fatalf("%s: saw %d rows, want %d", ranking, len(seen), len(rows))
		}
		for i, id := range seen {
			if want := strconv.Itoa(len(rows) - i); id != want {
				t.Fatalf("%s: position %d = %s, want %s", ranking, i, id, want)
			}
		}
	}
}

func TestResolve_OffsetScenario(t *testing.T) {
	var got string
	r := Resolver[OffsetPage, post]{
		Generator: OffsetGenerator[post]{DefaultFirst: 30, MaxFirst: 50},
		Apply:     ApplyOffsetPaging,
		Fetch: func(_ context.Context, b sq.SelectBuilder) ([]post, error) {
			got, _, _ = b.ToSql()
			return make([]post, 4), nil
		},
		Alias: "p",
	}
	conn, err := r.Resolve(context.Background(), Args{First: intp(30), After: "30"}, base(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasSuffix(got, "LIMIT 31 OFFSET 30") {
		t.Fatalf("sql = %s", got)
	}
	if !conn.PageInfo.HasPreviousPage || conn.PageInfo.HasNextPage {
		t.Fatalf("info = %+v", conn.PageInfo)
	}
	if n, _ := DecodeOffset(conn.PageInfo.StartCursor); n != 31 {
		t.Fatalf("start cursor position = %d, want 31", n)
	}
}

func TestResolve_PastCapSkipsQuery(t *testing.T) {
	fetches, filters := 0, 0
	r := Resolver[OffsetPage, post]{
		Generator: OffsetGenerator[post]{MaxTotal: 100},
		Apply:     ApplyOffsetPaging,
		Fetch: func(context.Context, sq.SelectBuilder) ([]post, error) {
			fetches++
			return make([]post, 1), nil
		},
		Alias: "p",
	}
	filter := func(_ context.Context, b sq.SelectBuilder, _ string) (sq.SelectBuilder, error) {
		filters++
		return b, nil
	}

	for _, after := range []int{100, 101, 5000} {
		conn, err := r.Resolve(context.Background(), Args{First: intp(10), After: EncodeOffset(after)}, base(), filter)
		if err != nil {
			t.Fatalf("after %d: %v", after, err)
		}
		if len(conn.Edges) != 0 || conn.Edges == nil || conn.PageInfo.HasNextPage || !conn.PageInfo.HasPreviousPage {
			t.Fatalf("after %d: conn = %+v", after, conn)
		}
	}
	if fetches != 0 || filters != 0 {
		t.Fatalf("fetches = %d filters = %d, want none past the cap", fetches, filters)
	}

	// the last row under the cap is still fetched
	if _, err := r.Resolve(context.Background(), Args{First: intp(10), After: EncodeOffset(99)}, base(), filter); err != nil || fetches != 1 {
		t.Fatalf("after 99: err = %v fetches = %d", err, fetches)
	}
}

func TestResolve_InvalidCursorSkipsQuery(t *testing.T) {
	called := false
	r := Resolver[RankedPage, post]{
		Generator: FeedGenerator[post]{},
		Apply:     ApplyFeedPaging,
		Fetch: func(context.Context, sq.SelectBuilder) ([]post, error) {
			called = true
			return nil, nil
		},
		Alias: "p",
	}
	filterCalled := false
	filter := func(_ context.Context, b sq.SelectBuilder, _ string) (sq.SelectBuilder, error) {
		filterCalled = true
		return b, nil
	}

	_, err := r.Resolve(context.Background(), Args{After: "not-base64-garbage"}, base(), filter)
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}
	if called || filterCalled {
		t.Fatalf("no query may be built or run for a bad cursor")
	}
}

func TestResolve_PropagatesFailures(t *testing.T) {
	boom := errors.New("connection reset")
	r := Resolver[RankedPage, post]{
		Generator: FeedGenerator[post]{},
		Apply:     ApplyFeedPaging,
		Fetch:     func(context.Context, sq.SelectBuilder) ([]post, error) { return nil, boom },
		Alias:     "p",
	}
	if _, err := r.Resolve(context.Background(), Args{}, base(), nil); err != boom {
		t.Fatalf("fetch err = %v, want the fetch error unchanged", err)
	}

	filterErr := errors.New("settings unavailable")
	failing := func(context.Context, sq.SelectBuilder, string) (sq.SelectBuilder, error) {
		return sq.SelectBuilder{}, filterErr
	}
	if _, err := r.Resolve(context.Background(), Args{}, base(), failing); err != filterErr {
		t.Fatalf("filter err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	r.Fetch = func(context.Context, sq.SelectBuilder) ([]post, error) { called = true; return nil, nil }
	if _, err := r.Resolve(ctx, Args{}, base(), nil); !errors.Is(err, context.Canceled) || called {
		t.Fatalf("cancelled ctx: err = %v, fetched = %v", err, called)
	}
}

func TestResolve_FilterIsComposed(t *testing.T) {
	var got string
	r := Resolver[RankedPage, post]{
		Generator: FeedGenerator[post]{},
		Apply:     ApplyFeedPaging,
		Fetch: func(_ context.Context, b sq.SelectBuilder) ([]post, error) {
			got, _, _ = b.ToSql()
			return nil, nil
		},
		Alias: "p",
	}
	filter := func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(sq.Eq{alias + ".author_id": "u1"}), nil
	}
	conn, err := r.Resolve(context.Background(), Args{First: intp(5)}, base(), filter)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := "SELECT p.id, p.score AS score FROM post p WHERE p.author_id = $1 ORDER BY p.score DESC, p.id DESC LIMIT 6"
	if got != want {
		t.Fatalf("sql =\n%s\nwant\n%s", got, want)
	}
	if conn.Edges == nil || len(conn.Edges) != 0 || conn.PageInfo.EndCursor != "" {
		t.Fatalf("empty result = %+v", conn)
	}
}

func TestRandomResolver(t *testing.T) {
	var got string
	r := RandomResolver[post]{
		MaxFirst: 10,
		Fetch: func(_ context.Context, b sq.SelectBuilder) ([]post, error) {
			got, _, _ = b.ToSql()
			return nil, nil
		},
		Alias: "p",
	}
	filter := func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(alias + ".trending > 0"), nil
	}

	cases := []struct {
		first *int
		want  string
	}{
		{nil, "LIMIT 3"},
		{intp(7), "LIMIT 7"},
		{intp(100), "LIMIT 10"},
	}
	for _, c := range cases {
		if _, err := r.Resolve(context.Background(), c.first, base(), filter); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !strings.HasSuffix(got, "ORDER BY random() "+c.want) || !strings.Contains(got, "WHERE p.trending > 0") {
			t.Fatalf("sql = %s, want suffix %s", got, c.want)
		}
	}
}

func TestMapConnection(t *testing.T) {
	in := Connection[post]{
		Edges:    []Edge[post]{{Node: post{id: "x"}, Cursor: "c1"}},
		PageInfo: PageInfo{HasNextPage: true, EndCursor: "c1"},
	}
	out := MapConnection(in, func(p post) string { return p.id })
	if out.Edges[0].Node != "x" || out.Edges[0].Cursor != "c1" || !out.PageInfo.HasNextPage {
		t.Fatalf("MapConnection = %+v", out)
	}
}
