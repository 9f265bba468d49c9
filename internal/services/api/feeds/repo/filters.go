package repo

import (
	"context"
	"strings"

	"feedline/internal/core/paging"
	perr "feedline/internal/platform/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// prefix tsquery over a normalized query, one placeholder
const (
	tsQueryExpr = "to_tsquery('english', string_agg(lexeme || ':*', ' & ' ORDER BY positions))"
	tsQueryFrom = "FROM unnest(to_tsvector('english', ?))"
)

// upvotedPeriods are the windows the most upvoted feed supports, in days
var upvotedPeriods = []int{7, 30, 365}

// AnonymousFilter narrows by source and tag lists; empty lists are ignored
func AnonymousFilter(includeSources, excludeSources, includeTags, blockedTags []string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		if len(includeSources) > 0 {
			b = b.Where(sq.Eq{alias + ".source_id": includeSources})
		}
		if len(excludeSources) > 0 {
			b = b.Where(sq.NotEq{alias + ".source_id": excludeSources})
		}
		if len(includeTags) > 0 {
			b = b.Where("EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = "+alias+".id AND pt.tag = ANY(?))", includeTags)
		}
		if len(blockedTags) > 0 {
			b = b.Where("NOT EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = "+alias+".id AND pt.tag = ANY(?))", blockedTags)
		}
		return b, nil
	}
}

// ConfiguredFilter applies the saved feed of userID: excluded sources,
// included tags when any are saved, blocked tags, and optionally unread only
func ConfiguredFilter(userID string, unreadOnly bool) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		if userID == "" {
			return b, perr.Unauthorizedf("configured feed requires a user")
		}
		b = b.Where("NOT EXISTS (SELECT 1 FROM feed_source fs WHERE fs.feed_id = ? AND fs.source_id = "+alias+".source_id)", userID).
			Where(`(NOT EXISTS (SELECT 1 FROM feed_tag ft WHERE ft.feed_id = ? AND NOT ft.blocked)
 OR EXISTS (SELECT 1 FROM post_tag pt JOIN feed_tag ft ON ft.tag = pt.tag WHERE ft.feed_id = ? AND NOT ft.blocked AND pt.post_id = `+alias+`.id))`, userID, userID).
			Where("NOT EXISTS (SELECT 1 FROM post_tag pt JOIN feed_tag ft ON ft.tag = pt.tag WHERE ft.feed_id = ? AND ft.blocked AND pt.post_id = "+alias+".id)", userID)
		if unreadOnly {
			b = b.Where("NOT EXISTS (SELECT 1 FROM view v WHERE v.post_id = "+alias+".id AND v.user_id = ?)", userID)
		}
		return b, nil
	}
}

// SourceFilter keeps posts of one source
func SourceFilter(source string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(sq.Eq{alias + ".source_id": source}), nil
	}
}

// TagFilter keeps posts carrying tag
func TagFilter(tag string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where("EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = "+alias+".id AND pt.tag = ?)", tag), nil
	}
}

// KeywordFilter keeps posts linked to an allowed keyword, resolving a
// synonym to the keyword it stands for
func KeywordFilter(keyword string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(`EXISTS (SELECT 1 FROM post_keyword pk JOIN keyword k ON k.value = pk.keyword
 WHERE pk.post_id = `+alias+`.id AND k.status = 'allow'
 AND (k.value = ? OR k.value = (SELECT s.synonym FROM keyword s WHERE s.value = ? AND s.status = 'synonym')))`, keyword, keyword), nil
	}
}

// AuthorFilter keeps posts by one author
func AuthorFilter(author string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(sq.Eq{alias + ".author_id": author}), nil
	}
}

// SearchFilter matches the normalized query as prefix terms, most viewed first
func SearchFilter(query string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(alias+".tsv @@ (SELECT "+tsQueryExpr+" "+tsQueryFrom+")", query).
			OrderBy(alias+".views DESC", alias+".id DESC"), nil
	}
}

// UpvotedPeriod resolves a requested window to a supported one, 7 by default
func UpvotedPeriod(days int) int {
	for _, p := range upvotedPeriods {
		if p == days {
			return p
		}
	}
	return upvotedPeriods[0]
}

// MostUpvotedFilter keeps posts of the last period days with at least 10
// upvotes, most upvoted first
func MostUpvotedFilter(period int) paging.Filter {
	days := UpvotedPeriod(period)
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(alias+".created_at > now() - make_interval(days => ?)", days).
			Where(alias + ".upvotes >= 10").
			OrderBy(alias+".upvotes DESC", alias+".id DESC"), nil
	}
}

// MostDiscussedFilter keeps posts with any discussion
func MostDiscussedFilter() paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		return b.Where(alias + ".discussion_score > 0"), nil
	}
}

// TrendingFilter keeps trending posts other than exclude
func TrendingFilter(exclude string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		b = b.Where(alias + ".trending > 0")
		return excludePost(b, alias, exclude)
	}
}

// DiscussedFilter keeps well discussed posts other than exclude
func DiscussedFilter(exclude string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		b = b.Where(alias + ".discussion_score > 0").Where(alias + ".comments >= 4")
		return excludePost(b, alias, exclude)
	}
}

// SimilarFilter keeps the 25 best recent posts sharing allowed keywords with post
func SimilarFilter(post string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		id, err := parsePostID(post)
		if err != nil {
			return b, err
		}
		return b.Where(alias+`.id IN (
SELECT sp.id
FROM post sp
JOIN (
  SELECT count(*) AS similar, min(k.occurrences) AS occurrences, pk.post_id
  FROM post_keyword pk
  JOIN post_keyword pk2 ON pk.keyword = pk2.keyword
  JOIN keyword k ON pk.keyword = k.value
  WHERE pk2.post_id = ? AND k.status = 'allow'
  GROUP BY pk.post_id
) k ON k.post_id = sp.id
WHERE sp.id <> ?
  AND sp.created_at >= now() - interval '6 month'
  AND sp.upvotes > 0
ORDER BY (pow(sp.upvotes, k.similar) * 1000 / k.occurrences) DESC
LIMIT 25)`, id, id), nil
	}
}

// SimilarByTagsFilter keeps the 25 best recent posts matching tags, or the
// 25 most upvoted recent posts when tags is empty; exclude is left out
func SimilarByTagsFilter(tags []string, exclude string) paging.Filter {
	return func(_ context.Context, b sq.SelectBuilder, alias string) (sq.SelectBuilder, error) {
		id, err := optionalPostID(exclude)
		if err != nil {
			return b, err
		}
		if len(tags) == 0 {
			return b.Where(alias+`.id IN (
SELECT sp.id
FROM post sp
WHERE (?::uuid IS NULL OR sp.id <> ?::uuid)
  AND sp.created_at >= now() - interval '6 month'
ORDER BY sp.upvotes DESC
LIMIT 25)`, id, id), nil
		}
		return b.Where(alias+`.id IN (
SELECT sp.id
FROM post sp
JOIN (
  SELECT count(*) AS similar, min(k.occurrences) AS occurrences, pk.post_id
  FROM post_keyword pk
  JOIN keyword k ON pk.keyword = k.value
  WHERE k.value = ANY(?) AND k.status = 'allow'
  GROUP BY pk.post_id
) k ON k.post_id = sp.id
WHERE (?::uuid IS NULL OR sp.id <> ?::uuid)
  AND sp.created_at >= now() - interval '6 month'
ORDER BY (pow(sp.upvotes, k.similar) * 1000 / k.occurrences) DESC
LIMIT 25)`, tags, id, id), nil
	}
}

func excludePost(b sq.SelectBuilder, alias, post string) (sq.SelectBuilder, error) {
	id, err := optionalPostID(post)
	if err != nil || id == nil {
		return b, err
	}
	return b.Where(alias+".id <> ?", *id), nil
}

func parsePostID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("post must be a uuid"), "post")
	}
	return id, nil
}

func optionalPostID(s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := parsePostID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
