package paging

import (
	"strings"
	"time"

	perr "feedline/internal/platform/errors"
)

// Ranking selects the ordering dimension of a ranked feed
type Ranking string

const (
	// RankingPopularity orders by score
	RankingPopularity Ranking = "POPULARITY"

	// RankingTime orders by creation time
	RankingTime Ranking = "TIME"
)

// ErrInvalidRanking is the sentinel behind unrecognized ranking values
var ErrInvalidRanking = perr.New(perr.ErrorCodeInvalidRanking, "invalid ranking")

// ParseRanking maps a wire value onto a Ranking, defaulting to popularity
func ParseRanking(s string) (Ranking, error) {
	switch Ranking(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RankingPopularity:
		return RankingPopularity, nil
	case RankingTime:
		return RankingTime, nil
	}
	return "", perr.Wrapf(ErrInvalidRanking, perr.ErrorCodeInvalidRanking, "ranking %q", s)
}

// Args are the connection arguments of one request
type Args struct {
	// After is the opaque cursor to resume from, empty on the first page
	After string

	// First is the requested page size, nil for the generator default
	First *int

	// Ranking is only consulted by generators with more than one dimension
	Ranking Ranking

	// Now pins the upper creation bound so new items do not shift pages
	Now *time.Time
}

// Limit resolves the fetch size for a requested count: the count clamped to
// max, defaulted when absent or non-positive, plus one lookahead row
func Limit(first *int, def, max int) int {
	n := def
	if first != nil && *first > 0 {
		n = *first
	}
	if n > max {
		n = max
	}
	return n + 1
}
