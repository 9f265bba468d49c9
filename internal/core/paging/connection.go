package paging

// Edge pairs a node with the cursor that resumes after it
type Edge[N any] struct {
	Node   N      `json:"node"`
	Cursor string `json:"cursor"`
}

// PageInfo reports where a connection sits in the full ranked sequence
type PageInfo struct {
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	StartCursor     string `json:"start_cursor,omitempty"`
	EndCursor       string `json:"end_cursor,omitempty"`
}

// Connection is one page of a feed
type Connection[N any] struct {
	Edges    []Edge[N] `json:"edges"`
	PageInfo PageInfo  `json:"page_info"`
}

// Nodes returns the nodes in edge order
func (c Connection[N]) Nodes() []N {
	out := make([]N, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

// MapConnection converts node types, keeping cursors and page info
func MapConnection[N, M any](c Connection[N], fn func(N) M) Connection[M] {
	out := Connection[M]{Edges: make([]Edge[M], len(c.Edges)), PageInfo: c.PageInfo}
	for i, e := range c.Edges {
		out.Edges[i] = Edge[M]{Node: fn(e.Node), Cursor: e.Cursor}
	}
	return out
}
