package paging

import (
	"time"

	perr "feedline/internal/platform/errors"
)

// Generator converts connection arguments into a page descriptor P and
// results of type N back into cursors and page info
//
// HasNextPage must see the untrimmed row count; Trim runs after it
type Generator[P, N any] interface {
	ArgsToPage(args Args) (P, error)
	NodeToCursor(page P, args Args, node N, index int) string
	HasNextPage(page P, returned int) bool
	HasPreviousPage(page P) bool
	Trim(page P, nodes []N) []N
}

// RankedNode is a row that can resume a popularity or time ranked feed
type RankedNode interface {
	RankScore() int64
	RankTime() time.Time
}

// DiscussedNode is a row that can resume a discussion ranked feed
type DiscussedNode interface {
	DiscussionRank() int64
}

// FeedGenerator pages by score (POPULARITY) or creation time (TIME)
// Zero sizes fall back to DefaultFirst and MaxFirst
type FeedGenerator[N RankedNode] struct {
	DefaultFirst int
	MaxFirst     int
}

// ArgsToPage implements Generator
func (g FeedGenerator[N]) ArgsToPage(args Args) (RankedPage, error) {
	page := RankedPage{Limit: Limit(args.First, orDefault(g.DefaultFirst, DefaultFirst), orDefault(g.MaxFirst, MaxFirst))}

	ranking, err := feedRanking(args.Ranking)
	if err != nil {
		return RankedPage{}, err
	}
	m, err := Decode(args.After)
	if err != nil {
		return RankedPage{}, err
	}
	if m.IsZero() {
		return page, nil
	}

	switch ranking {
	case RankingPopularity:
		if m.Kind != KindScore {
			return RankedPage{}, invalidCursor("%s cursor used with %s ranking", m.Kind, ranking)
		}
		v := m.Value
		page.Score = &v
	case RankingTime:
		if m.Kind != KindTime {
			return RankedPage{}, invalidCursor("%s cursor used with %s ranking", m.Kind, ranking)
		}
		ts := time.UnixMilli(m.Value).UTC()
		page.Timestamp = &ts
	}
	return page, nil
}

// NodeToCursor implements Generator
func (g FeedGenerator[N]) NodeToCursor(_ RankedPage, args Args, node N, _ int) string {
	if args.Ranking == RankingTime {
		return Encode(Marker{Kind: KindTime, Value: node.RankTime().UnixMilli()})
	}
	return Encode(Marker{Kind: KindScore, Value: node.RankScore()})
}

// HasNextPage implements Generator
func (g FeedGenerator[N]) HasNextPage(page RankedPage, returned int) bool {
	return returned == page.Limit
}

// HasPreviousPage implements Generator
func (g FeedGenerator[N]) HasPreviousPage(page RankedPage) bool { return page.Resumes() }

// Trim implements Generator
func (g FeedGenerator[N]) Trim(page RankedPage, nodes []N) []N { return trim(page.Limit, nodes) }

// DiscussionGenerator pages by discussion score; ranking args are ignored
type DiscussionGenerator[N DiscussedNode] struct {
	DefaultFirst int
	MaxFirst     int
}

// ArgsToPage implements Generator
func (g DiscussionGenerator[N]) ArgsToPage(args Args) (RankedPage, error) {
	page := RankedPage{Limit: Limit(args.First, orDefault(g.DefaultFirst, DefaultFirst), orDefault(g.MaxFirst, MaxFirst))}
	m, err := Decode(args.After)
	if err != nil {
		return RankedPage{}, err
	}
	if m.IsZero() {
		return page, nil
	}
	if m.Kind != KindScore {
		return RankedPage{}, invalidCursor("%s cursor used with discussion ranking", m.Kind)
	}
	v := m.Value
	page.Score = &v
	return page, nil
}

// NodeToCursor implements Generator
func (g DiscussionGenerator[N]) NodeToCursor(_ RankedPage, _ Args, node N, _ int) string {
	return Encode(Marker{Kind: KindScore, Value: node.DiscussionRank()})
}

// HasNextPage implements Generator
func (g DiscussionGenerator[N]) HasNextPage(page RankedPage, returned int) bool {
	return returned == page.Limit
}

// HasPreviousPage implements Generator
func (g DiscussionGenerator[N]) HasPreviousPage(page RankedPage) bool { return page.Score != nil }

// Trim implements Generator
func (g DiscussionGenerator[N]) Trim(page RankedPage, nodes []N) []N { return trim(page.Limit, nodes) }

// OffsetGenerator pages by position for feeds whose ordering is not a
// resumable column (search relevance, vote counts over a window)
// MaxTotal, when positive, caps how deep the feed can be paged
type OffsetGenerator[N any] struct {
	DefaultFirst int
	MaxFirst     int
	MaxTotal     int
}

// ArgsToPage implements Generator
func (g OffsetGenerator[N]) ArgsToPage(args Args) (OffsetPage, error) {
	offset, err := DecodeOffset(args.After)
	if err != nil {
		return OffsetPage{}, err
	}
	limit := Limit(args.First, orDefault(g.DefaultFirst, DefaultFirst), orDefault(g.MaxFirst, MaxFirst))
	if g.MaxTotal > 0 {
		if offset >= g.MaxTotal {
			return OffsetPage{Offset: offset}, nil
		}
		limit = min(limit, g.MaxTotal-offset+1)
	}
	return OffsetPage{Limit: limit, Offset: offset}, nil
}

// NodeToCursor encodes the 1-based position of node so resuming from it
// skips exactly the rows already delivered
func (g OffsetGenerator[N]) NodeToCursor(page OffsetPage, _ Args, _ N, index int) string {
	return EncodeOffset(page.Offset + index + 1)
}

// HasNextPage implements Generator
func (g OffsetGenerator[N]) HasNextPage(page OffsetPage, returned int) bool {
	if page.Exhausted() || returned != page.Limit {
		return false
	}
	return g.MaxTotal <= 0 || page.Offset+page.Limit-1 < g.MaxTotal
}

// HasPreviousPage implements Generator
func (g OffsetGenerator[N]) HasPreviousPage(page OffsetPage) bool { return page.Offset > 0 }

// Trim implements Generator
func (g OffsetGenerator[N]) Trim(page OffsetPage, nodes []N) []N { return trim(page.Limit, nodes) }

func feedRanking(r Ranking) (Ranking, error) {
	switch r {
	case "":
		return RankingPopularity, nil
	case RankingPopularity, RankingTime:
		return r, nil
	}
	return "", perr.Wrapf(ErrInvalidRanking, perr.ErrorCodeInvalidRanking, "ranking %q", string(r))
}

func trim[N any](limit int, nodes []N) []N {
	keep := max(limit-1, 0)
	if len(nodes) > keep {
		return nodes[:keep]
	}
	return nodes
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
