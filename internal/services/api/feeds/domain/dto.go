// Package domain holds DTOs for feeds http and service contracts
package domain

import (
	"time"

	"feedline/internal/core/paging"
)

// PageArgs are the connection arguments every paged feed accepts
// first is clamped to the feed maximum rather than rejected
type PageArgs struct {
	After string     `json:"after,omitempty" validate:"omitempty,max=512" example:"c2NvcmU6NTA="`
	First *int       `json:"first,omitempty" example:"30"`
	Now   *time.Time `json:"now,omitempty" example:"2026-10-01T12:00:00Z"`
}

// RankedArgs adds the ranking choice for feeds ranked by score or time
type RankedArgs struct {
	PageArgs
	Ranking string `json:"ranking,omitempty" example:"POPULARITY"`
}

// Filters narrow the anonymous feed by source and tag
type Filters struct {
	IncludeSources []string `json:"include_sources,omitempty" validate:"omitempty,max=200,dive,min=1,max=100" example:"golang"`
	ExcludeSources []string `json:"exclude_sources,omitempty" validate:"omitempty,max=200,dive,min=1,max=100" example:"spam-weekly"`
	IncludeTags    []string `json:"include_tags,omitempty" validate:"omitempty,max=200,dive,min=1,max=100" example:"go"`
	BlockedTags    []string `json:"blocked_tags,omitempty" validate:"omitempty,max=200,dive,min=1,max=100" example:"crypto"`
}

// AnonymousFeedInput is an ad hoc feed built from request filters
type AnonymousFeedInput struct {
	RankedArgs
	Filters *Filters `json:"filters,omitempty"`
}

// ConfiguredFeedInput is the signed in user's saved feed
type ConfiguredFeedInput struct {
	RankedArgs
	UnreadOnly bool `json:"unread_only,omitempty" example:"false"`
}

// SourceFeedInput is a single source feed
type SourceFeedInput struct {
	RankedArgs
	Source string `json:"source" validate:"required,min=1,max=100" example:"golang"`
}

// TagFeedInput is a single tag feed
type TagFeedInput struct {
	RankedArgs
	Tag string `json:"tag" validate:"required,min=1,max=100" example:"postgres"`
}

// KeywordFeedInput is a single keyword feed
type KeywordFeedInput struct {
	RankedArgs
	Keyword string `json:"keyword" validate:"required,min=1,max=100" example:"generics"`
}

// AuthorFeedInput is a single author feed
type AuthorFeedInput struct {
	RankedArgs
	Author string `json:"author" validate:"required,min=1,max=100" example:"u_3f9a"`
}

// SearchInput is a full text search over post titles
type SearchInput struct {
	PageArgs
	Query string `json:"query" validate:"required,min=1,max=200" example:"go generics"`
}

// SuggestionsInput asks for highlighted titles matching a query
type SuggestionsInput struct {
	Query string `json:"query" validate:"required,min=1,max=200" example:"go gen"`
}

// MostUpvotedInput pages the most upvoted posts of a recent window
// unknown periods fall back to 7 days
type MostUpvotedInput struct {
	PageArgs
	Period int `json:"period,omitempty" validate:"omitempty,min=0" example:"30"`
}

// MostDiscussedInput pages posts by discussion score
type MostDiscussedInput struct {
	PageArgs
}

// RandomInput samples posts, optionally excluding one post
type RandomInput struct {
	Post  string `json:"post,omitempty" validate:"omitempty,uuid" example:"2b1f4c1e-7d7e-4a53-9f51-7f0a6c1d2e3f"`
	First *int   `json:"first,omitempty" example:"3"`
}

// RandomSimilarInput samples posts sharing keywords with a post
type RandomSimilarInput struct {
	Post  string `json:"post" validate:"required,uuid" example:"2b1f4c1e-7d7e-4a53-9f51-7f0a6c1d2e3f"`
	First *int   `json:"first,omitempty" example:"3"`
}

// RandomByTagsInput samples posts matching any of the tags
type RandomByTagsInput struct {
	Tags  []string `json:"tags" validate:"max=50,dive,min=1,max=100" example:"go"`
	Post  string   `json:"post,omitempty" validate:"omitempty,uuid" example:"2b1f4c1e-7d7e-4a53-9f51-7f0a6c1d2e3f"`
	First *int     `json:"first,omitempty" example:"3"`
}

// Post is one feed item
type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Image           string    `json:"image,omitempty"`
	SourceID        string    `json:"source_id"`
	AuthorID        string    `json:"author_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Score           int64     `json:"score"`
	DiscussionScore int64     `json:"discussion_score"`
	Upvotes         int       `json:"upvotes"`
	Comments        int       `json:"comments"`
	Views           int       `json:"views"`
	Tags            []string  `json:"tags"`
}

// PostConnection is one page of posts
type PostConnection = paging.Connection[Post]

// SearchConnection is one page of search results and the query that produced it
type SearchConnection struct {
	Query string `json:"query"`
	PostConnection
}

// Suggestion is a title with matched terms wrapped in <strong>
type Suggestion struct {
	Title string `json:"title"`
}

// SuggestionsResult lists suggestions for a query
type SuggestionsResult struct {
	Query string       `json:"query"`
	Hits  []Suggestion `json:"hits"`
}

// Source is a content source as shown in feed settings
type Source struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// FeedSettings are the saved filters of a user's feed
type FeedSettings struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	IncludeTags    []string `json:"include_tags"`
	BlockedTags    []string `json:"blocked_tags"`
	ExcludeSources []Source `json:"exclude_sources"`
}
