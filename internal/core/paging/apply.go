package paging

import (
	sq "github.com/Masterminds/squirrel"
)

// Applier layers a page descriptor onto a query; it never executes and never
// touches predicates it did not add
type Applier[P any] func(args Args, page P, b sq.SelectBuilder, alias string) sq.SelectBuilder

// ApplyFeedPaging orders by score or creation time, limits to the lookahead
// size, and resumes strictly below the cursor value
// Rows tied on the ranking column are ordered by id within a page; a tie
// that straddles a page boundary is not revisited
func ApplyFeedPaging(args Args, page RankedPage, b sq.SelectBuilder, alias string) sq.SelectBuilder {
	col, as := alias+".score", "score"
	if args.Ranking == RankingTime {
		col, as = alias+".created_at", "created_at"
	}
	b = b.Column(col+" AS "+as).
		Limit(uint64(page.Limit)).
		OrderBy(col+" DESC", alias+".id DESC")

	switch {
	case page.Score != nil:
		b = b.Where(sq.Lt{alias + ".score": *page.Score})
	case page.Timestamp != nil:
		b = b.Where(sq.Lt{alias + ".created_at": *page.Timestamp})
	}
	return b
}

// ApplyDiscussedPaging is ApplyFeedPaging over the discussion score
func ApplyDiscussedPaging(_ Args, page RankedPage, b sq.SelectBuilder, alias string) sq.SelectBuilder {
	col := alias + ".discussion_score"
	b = b.Column(col+" AS discussion_score").
		Limit(uint64(page.Limit)).
		OrderBy(col+" DESC", alias+".id DESC")
	if page.Score != nil {
		b = b.Where(sq.Lt{col: *page.Score})
	}
	return b
}

// ApplyOffsetPaging limits and skips; ordering belongs to the filter
func ApplyOffsetPaging(_ Args, page OffsetPage, b sq.SelectBuilder, _ string) sq.SelectBuilder {
	b = b.Limit(uint64(page.Limit))
	if page.Offset > 0 {
		b = b.Offset(uint64(page.Offset))
	}
	return b
}
