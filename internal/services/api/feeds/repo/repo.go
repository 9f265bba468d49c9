// Package repo provides postgres access for feeds
package repo

import (
	"context"
	"strings"
	"time"

	"feedline/internal/modkit/repokit"
	perr "feedline/internal/platform/errors"

	sq "github.com/Masterminds/squirrel"
)

// Alias is the table alias every feed query uses for post
const Alias = "p"

// postColumns is the projection of RowPost
var postColumns = []string{
	"p.id::text AS id",
	"p.title",
	"p.url",
	"p.image",
	"p.source_id",
	"coalesce(p.author_id, '') AS author_id",
	"p.created_at",
	"p.score",
	"p.discussion_score",
	"p.upvotes",
	"p.comments",
	"p.views",
	"p.tags_str",
}

// Repo defines the repository contract for feeds
type Repo interface {
	Fetch(ctx context.Context, b sq.SelectBuilder) ([]RowPost, error)
	Suggestions(ctx context.Context, query string, limit int) ([]string, error)
	FeedSettings(ctx context.Context, userID string) (RowFeedSettings, error)
}

// RowPost represents a post row as selected by feed queries
type RowPost struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	URL             string    `db:"url"`
	Image           string    `db:"image"`
	SourceID        string    `db:"source_id"`
	AuthorID        string    `db:"author_id"`
	CreatedAt       time.Time `db:"created_at"`
	Score           int64     `db:"score"`
	DiscussionScore int64     `db:"discussion_score"`
	Upvotes         int       `db:"upvotes"`
	Comments        int       `db:"comments"`
	Views           int       `db:"views"`
	TagsStr         string    `db:"tags_str"`
}

// RankScore implements paging.RankedNode
func (r RowPost) RankScore() int64 { return r.Score }

// RankTime implements paging.RankedNode
func (r RowPost) RankTime() time.Time { return r.CreatedAt }

// DiscussionRank implements paging.DiscussedNode
func (r RowPost) DiscussionRank() int64 { return r.DiscussionScore }

// Tags splits the comma separated tag list
func (r RowPost) Tags() []string {
	if r.TagsStr == "" {
		return []string{}
	}
	return strings.Split(r.TagsStr, ",")
}

// RowSource is a source referenced by feed settings
type RowSource struct {
	ID    string
	Name  string
	Image string
}

// RowFeedSettings holds a user's saved feed filters
// Found is false when the user never saved any
type RowFeedSettings struct {
	ID             string
	UserID         string
	IncludeTags    []string
	BlockedTags    []string
	ExcludeSources []RowSource
	Found          bool
}

// Base returns the unfiltered post query feeds compose on
// now, when set, hides posts created after pagination started
// post.created_at must be timestamptz(3): TIME cursors carry epoch milliseconds
// and a finer column would drop rows sharing the cursor's millisecond
func Base(now *time.Time) sq.SelectBuilder {
	b := repokit.Builder.Select(postColumns...).
		From("post " + Alias).
		Where(Alias + ".deleted = false")
	if now != nil {
		b = b.Where(sq.LtOrEq{Alias + ".created_at": *now})
	}
	return b
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Fetch runs a composed feed query
func (r *queries) Fetch(ctx context.Context, b sq.SelectBuilder) ([]RowPost, error) {
	rows, err := repokit.Select[RowPost](ctx, r.q, b)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed query failed")
	}
	return rows, nil
}

// Suggestions returns highlighted titles of the most viewed matches
func (r *queries) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	b := repokit.Builder.
		Select("ts_headline(p.title, search.query, 'StartSel = <strong>, StopSel = </strong>') AS title").
		Prefix("WITH search AS (SELECT "+tsQueryExpr+" AS query "+tsQueryFrom+")", query).
		From("post p, search").
		Where("p.deleted = false").
		Where("p.tsv @@ search.query").
		OrderBy("p.views DESC").
		Limit(uint64(limit))

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "suggestions query failed")
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

// FeedSettings reads the saved filters of userID; the feed id is the user id
func (r *queries) FeedSettings(ctx context.Context, userID string) (RowFeedSettings, error) {
	out := RowFeedSettings{ID: userID, UserID: userID, IncludeTags: []string{}, BlockedTags: []string{}, ExcludeSources: []RowSource{}}

	var n int
	if err := r.q.QueryRow(ctx, `select count(*) from feed where id = $1 and user_id = $1`, userID).Scan(&n); err != nil {
		return out, perr.FromPostgres(err, "feed lookup failed")
	}
	if n == 0 {
		return out, nil
	}
	out.Found = true

	rows, err := r.q.Query(ctx, `
select tag, blocked
from feed_tag
where feed_id = $1
order by tag
`, userID)
	if err != nil {
		return out, perr.FromPostgres(err, "feed tags query failed")
	}
	for rows.Next() {
		var (
			tag     string
			blocked bool
		)
		if err := rows.Scan(&tag, &blocked); err != nil {
			rows.Close()
			return out, err
		}
		if blocked {
			out.BlockedTags = append(out.BlockedTags, tag)
		} else {
			out.IncludeTags = append(out.IncludeTags, tag)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.q.Query(ctx, `
select s.id, s.name, s.image
from feed_source fs
join source s on s.id = fs.source_id
where fs.feed_id = $1
order by s.name
`, userID)
	if err != nil {
		return out, perr.FromPostgres(err, "feed sources query failed")
	}
	defer rows.Close()
	for rows.Next() {
		var s RowSource
		if err := rows.Scan(&s.ID, &s.Name, &s.Image); err != nil {
			return out, err
		}
		out.ExcludeSources = append(out.ExcludeSources, s)
	}
	return out, rows.Err()
}
