package paging

import "time"

const (
	// DefaultFirst is the page size used when a request names none
	DefaultFirst = 30

	// MaxFirst is the largest page size a request can ask for
	MaxFirst = 50
)

// RankedPage describes a fetch over a descending ranking column
// At most one of Score and Timestamp is set, and only when resuming
type RankedPage struct {
	Limit     int
	Score     *int64
	Timestamp *time.Time
}

// Resumes reports whether the page continues from a cursor
func (p RankedPage) Resumes() bool { return p.Score != nil || p.Timestamp != nil }

// OffsetPage describes a fetch that skips Offset rows of a caller ordered query
// a zero Limit marks a page past the end of a capped feed
type OffsetPage struct {
	Limit  int
	Offset int
}

// Exhausted reports that no row can follow Offset, so nothing is fetched
func (p OffsetPage) Exhausted() bool { return p.Limit == 0 }
