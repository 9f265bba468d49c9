// Package service contains feeds workflows
package service

import (
	"context"
	"strings"

	"feedline/internal/core/normalize"
	"feedline/internal/core/paging"
	"feedline/internal/modkit/repokit"
	"feedline/internal/services/api/feeds/domain"
	"feedline/internal/services/api/feeds/repo"
)

// Service defines the service contract for feeds
type Service interface{ domain.ServicePort }

// Options tune the unpaged feeds
type Options struct {
	RandomDefault    int
	RandomMax        int
	SuggestionsLimit int
}

// DefaultOptions are used for zero fields of Options
var DefaultOptions = Options{RandomDefault: 3, RandomMax: 10, SuggestionsLimit: 5}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	opts   Options
	norm   *normalize.Normalizer

	feed      paging.Resolver[paging.RankedPage, repo.RowPost]
	discussed paging.Resolver[paging.RankedPage, repo.RowPost]
	search    paging.Resolver[paging.OffsetPage, repo.RowPost]
	upvoted   paging.Resolver[paging.OffsetPage, repo.RowPost]
	random    paging.RandomResolver[repo.RowPost]
}

// New creates a new feeds service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("feeds.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("feeds.Service requires a non nil Repo binder")
	}
	if opts.RandomDefault <= 0 {
		opts.RandomDefault = DefaultOptions.RandomDefault
	}
	if opts.RandomMax <= 0 {
		opts.RandomMax = DefaultOptions.RandomMax
	}
	if opts.SuggestionsLimit <= 0 {
		opts.SuggestionsLimit = DefaultOptions.SuggestionsLimit
	}

	r := binder.Bind(db)
	s := &Svc{Repo: r, binder: binder, db: db, opts: opts, norm: normalize.New()}
	fetch := r.Fetch

	s.feed = paging.Resolver[paging.RankedPage, repo.RowPost]{
		Generator: paging.FeedGenerator[repo.RowPost]{},
		Apply:     paging.ApplyFeedPaging,
		Fetch:     fetch,
		Alias:     repo.Alias,
	}
	s.discussed = paging.Resolver[paging.RankedPage, repo.RowPost]{
		Generator: paging.DiscussionGenerator[repo.RowPost]{},
		Apply:     paging.ApplyDiscussedPaging,
		Fetch:     fetch,
		Alias:     repo.Alias,
	}
	s.search = paging.Resolver[paging.OffsetPage, repo.RowPost]{
		Generator: paging.OffsetGenerator[repo.RowPost]{DefaultFirst: paging.DefaultFirst, MaxFirst: paging.MaxFirst},
		Apply:     paging.ApplyOffsetPaging,
		Fetch:     fetch,
		Alias:     repo.Alias,
	}
	s.upvoted = paging.Resolver[paging.OffsetPage, repo.RowPost]{
		Generator: paging.OffsetGenerator[repo.RowPost]{DefaultFirst: paging.DefaultFirst, MaxFirst: paging.MaxFirst, MaxTotal: 100},
		Apply:     paging.ApplyOffsetPaging,
		Fetch:     fetch,
		Alias:     repo.Alias,
	}
	s.random = paging.RandomResolver[repo.RowPost]{
		DefaultFirst: opts.RandomDefault,
		MaxFirst:     opts.RandomMax,
		Fetch:        fetch,
		Alias:        repo.Alias,
	}
	return s
}

// AnonymousFeed pages posts narrowed by the request filters
func (s *Svc) AnonymousFeed(ctx context.Context, in domain.AnonymousFeedInput) (domain.PostConnection, error) {
	f := domain.Filters{}
	if in.Filters != nil {
		f = *in.Filters
	}
	return s.ranked(ctx, in.RankedArgs, repo.AnonymousFilter(f.IncludeSources, f.ExcludeSources, f.IncludeTags, f.BlockedTags))
}

// ConfiguredFeed pages posts through the saved feed of userID
func (s *Svc) ConfiguredFeed(ctx context.Context, userID string, in domain.ConfiguredFeedInput) (domain.PostConnection, error) {
	return s.ranked(ctx, in.RankedArgs, repo.ConfiguredFilter(userID, in.UnreadOnly))
}

// SourceFeed pages posts of one source
func (s *Svc) SourceFeed(ctx context.Context, in domain.SourceFeedInput) (domain.PostConnection, error) {
	return s.ranked(ctx, in.RankedArgs, repo.SourceFilter(in.Source))
}

// TagFeed pages posts carrying one tag
func (s *Svc) TagFeed(ctx context.Context, in domain.TagFeedInput) (domain.PostConnection, error) {
	return s.ranked(ctx, in.RankedArgs, repo.TagFilter(in.Tag))
}

// KeywordFeed pages posts linked to one keyword
func (s *Svc) KeywordFeed(ctx context.Context, in domain.KeywordFeedInput) (domain.PostConnection, error) {
	return s.ranked(ctx, in.RankedArgs, repo.KeywordFilter(in.Keyword))
}

// AuthorFeed pages posts of one author
func (s *Svc) AuthorFeed(ctx context.Context, in domain.AuthorFeedInput) (domain.PostConnection, error) {
	return s.ranked(ctx, in.RankedArgs, repo.AuthorFilter(in.Author))
}

// MostUpvoted pages the most upvoted posts of the requested window
func (s *Svc) MostUpvoted(ctx context.Context, in domain.MostUpvotedInput) (domain.PostConnection, error) {
	conn, err := s.upvoted.Resolve(ctx, pageArgs(in.PageArgs, ""), repo.Base(in.Now), repo.MostUpvotedFilter(in.Period))
	if err != nil {
		return domain.PostConnection{}, err
	}
	return paging.MapConnection(conn, toPost), nil
}

// MostDiscussed pages posts by discussion score
func (s *Svc) MostDiscussed(ctx context.Context, in domain.MostDiscussedInput) (domain.PostConnection, error) {
	conn, err := s.discussed.Resolve(ctx, pageArgs(in.PageArgs, ""), repo.Base(in.Now), repo.MostDiscussedFilter())
	if err != nil {
		return domain.PostConnection{}, err
	}
	return paging.MapConnection(conn, toPost), nil
}

// Search pages posts matching the normalized query
// a query with no searchable terms yields an empty page
func (s *Svc) Search(ctx context.Context, in domain.SearchInput) (domain.SearchConnection, error) {
	q := strings.Join(s.norm.Terms(in.Query), " ")
	if q == "" {
		return domain.SearchConnection{Query: in.Query, PostConnection: emptyConnection()}, nil
	}
	conn, err := s.search.Resolve(ctx, pageArgs(in.PageArgs, ""), repo.Base(in.Now), repo.SearchFilter(q))
	if err != nil {
		return domain.SearchConnection{}, err
	}
	return domain.SearchConnection{Query: in.Query, PostConnection: paging.MapConnection(conn, toPost)}, nil
}

// Suggestions returns highlighted titles of the best matches for a query
func (s *Svc) Suggestions(ctx context.Context, in domain.SuggestionsInput) (domain.SuggestionsResult, error) {
	out := domain.SuggestionsResult{Query: in.Query, Hits: []domain.Suggestion{}}
	q := strings.Join(s.norm.Terms(in.Query), " ")
	if q == "" {
		return out, nil
	}
	titles, err := s.Repo.Suggestions(ctx, q, s.opts.SuggestionsLimit)
	if err != nil {
		return out, err
	}
	for _, t := range titles {
		out.Hits = append(out.Hits, domain.Suggestion{Title: t})
	}
	return out, nil
}

// RandomTrending samples trending posts
func (s *Svc) RandomTrending(ctx context.Context, in domain.RandomInput) ([]domain.Post, error) {
	return s.sample(ctx, in.First, repo.TrendingFilter(in.Post))
}

// RandomSimilar samples posts sharing keywords with in.Post
func (s *Svc) RandomSimilar(ctx context.Context, in domain.RandomSimilarInput) ([]domain.Post, error) {
	return s.sample(ctx, in.First, repo.SimilarFilter(in.Post))
}

// RandomByTags samples posts matching in.Tags
func (s *Svc) RandomByTags(ctx context.Context, in domain.RandomByTagsInput) ([]domain.Post, error) {
	return s.sample(ctx, in.First, repo.SimilarByTagsFilter(in.Tags, in.Post))
}

// RandomDiscussed samples well discussed posts
func (s *Svc) RandomDiscussed(ctx context.Context, in domain.RandomInput) ([]domain.Post, error) {
	return s.sample(ctx, in.First, repo.DiscussedFilter(in.Post))
}

// FeedSettings reads the saved feed of userID in one read only transaction
// users who never saved a feed get empty settings
func (s *Svc) FeedSettings(ctx context.Context, userID string) (domain.FeedSettings, error) {
	var row repo.RowFeedSettings
	err := repokit.WithTx(ctx, repokit.WithBeginHooks(s.db, repokit.ReadOnly), func(q repokit.Queryer) error {
		var err error
		row, err = s.binder.Bind(q).FeedSettings(ctx, userID)
		return err
	})
	if err != nil {
		return domain.FeedSettings{}, err
	}

	out := domain.FeedSettings{
		ID:             userID,
		UserID:         userID,
		IncludeTags:    nonNil(row.IncludeTags),
		BlockedTags:    nonNil(row.BlockedTags),
		ExcludeSources: make([]domain.Source, 0, len(row.ExcludeSources)),
	}
	if row.Found {
		out.ID = row.ID
	}
	for _, src := range row.ExcludeSources {
		out.ExcludeSources = append(out.ExcludeSources, domain.Source{ID: src.ID, Name: src.Name, Image: src.Image})
	}
	return out, nil
}

func (s *Svc) ranked(ctx context.Context, in domain.RankedArgs, filter paging.Filter) (domain.PostConnection, error) {
	ranking, err := paging.ParseRanking(in.Ranking)
	if err != nil {
		return domain.PostConnection{}, err
	}
	conn, err := s.feed.Resolve(ctx, pageArgs(in.PageArgs, ranking), repo.Base(in.Now), filter)
	if err != nil {
		return domain.PostConnection{}, err
	}
	return paging.MapConnection(conn, toPost), nil
}

func (s *Svc) sample(ctx context.Context, first *int, filter paging.Filter) ([]domain.Post, error) {
	rows, err := s.random.Resolve(ctx, first, repo.Base(nil), filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, toPost(r))
	}
	return out, nil
}

func pageArgs(in domain.PageArgs, ranking paging.Ranking) paging.Args {
	return paging.Args{After: in.After, First: in.First, Ranking: ranking, Now: in.Now}
}

func emptyConnection() domain.PostConnection {
	return domain.PostConnection{Edges: []paging.Edge[domain.Post]{}}
}

func toPost(r repo.RowPost) domain.Post {
	return domain.Post{
		ID:              r.ID,
		Title:           r.Title,
		URL:             r.URL,
		Image:           r.Image,
		SourceID:        r.SourceID,
		AuthorID:        r.AuthorID,
		CreatedAt:       r.CreatedAt,
		Score:           r.Score,
		DiscussionScore: r.DiscussionScore,
		Upvotes:         r.Upvotes,
		Comments:        r.Comments,
		Views:           r.Views,
		Tags:            r.Tags(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
