package domain

import "context"

// ServicePort defines the service contract for feeds
type ServicePort interface {
	AnonymousFeed(ctx context.Context, in AnonymousFeedInput) (PostConnection, error)
	ConfiguredFeed(ctx context.Context, userID string, in ConfiguredFeedInput) (PostConnection, error)
	SourceFeed(ctx context.Context, in SourceFeedInput) (PostConnection, error)
	TagFeed(ctx context.Context, in TagFeedInput) (PostConnection, error)
	KeywordFeed(ctx context.Context, in KeywordFeedInput) (PostConnection, error)
	AuthorFeed(ctx context.Context, in AuthorFeedInput) (PostConnection, error)
	MostUpvoted(ctx context.Context, in MostUpvotedInput) (PostConnection, error)
	MostDiscussed(ctx context.Context, in MostDiscussedInput) (PostConnection, error)
	Search(ctx context.Context, in SearchInput) (SearchConnection, error)
	Suggestions(ctx context.Context, in SuggestionsInput) (SuggestionsResult, error)

	RandomTrending(ctx context.Context, in RandomInput) ([]Post, error)
	RandomSimilar(ctx context.Context, in RandomSimilarInput) ([]Post, error)
	RandomByTags(ctx context.Context, in RandomByTagsInput) ([]Post, error)
	RandomDiscussed(ctx context.Context, in RandomInput) ([]Post, error)

	FeedSettings(ctx context.Context, userID string) (FeedSettings, error)
}
