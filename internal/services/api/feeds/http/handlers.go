// Package http provides http transport for feeds
package http

import (
	stdhttp "net/http"

	"feedline/internal/modkit/httpkit"
	"feedline/internal/platform/net/middleware"
	"feedline/internal/services/api/feeds/domain"
	svc "feedline/internal/services/api/feeds/service"
)

// Register mounts feeds endpoints on the given router
// routes reading the user's own feed are guarded by auth
func Register(r httpkit.Router, s svc.Service, auth middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.AnonymousFeedInput](r, "/anonymous", h.anonymous)
	httpkit.PostJSON[domain.SourceFeedInput](r, "/source", h.source)
	httpkit.PostJSON[domain.TagFeedInput](r, "/tag", h.tag)
	httpkit.PostJSON[domain.KeywordFeedInput](r, "/keyword", h.keyword)
	httpkit.PostJSON[domain.AuthorFeedInput](r, "/author", h.author)
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.PostJSON[domain.SuggestionsInput](r, "/search/suggestions", h.suggestions)
	httpkit.PostJSON[domain.MostUpvotedInput](r, "/most-upvoted", h.mostUpvoted)
	httpkit.PostJSON[domain.MostDiscussedInput](r, "/most-discussed", h.mostDiscussed)

	r.Route("/random", func(rr httpkit.Router) {
		httpkit.PostJSON[domain.RandomInput](rr, "/trending", h.randomTrending)
		httpkit.PostJSON[domain.RandomSimilarInput](rr, "/similar", h.randomSimilar)
		httpkit.PostJSON[domain.RandomByTagsInput](rr, "/similar-by-tags", h.randomByTags)
		httpkit.PostJSON[domain.RandomInput](rr, "/discussed", h.randomDiscussed)
	})

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.ConfiguredFeedInput](pr, "/mine", h.mine)
		httpkit.Get(pr, "/settings", h.settings)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route POST /feeds/anonymous Feeds feedsAnonymous
// @Summary Feed built from ad hoc source and tag filters
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.AnonymousFeedInput true "Filters and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Failure 400 {object} httpkit.Envelope "invalid cursor, ranking, or payload"
// @Router /feeds/anonymous [post]
func (h *handlers) anonymous(r *stdhttp.Request, in domain.AnonymousFeedInput) (any, error) {
	return h.svc.AnonymousFeed(r.Context(), in)
}

// swagger:route POST /feeds/mine Feeds feedsMine
// @Summary The signed in user's saved feed
// @Tags Feeds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ConfiguredFeedInput true "Connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Failure 401 {object} httpkit.Envelope "missing or invalid token"
// @Router /feeds/mine [post]
func (h *handlers) mine(r *stdhttp.Request, in domain.ConfiguredFeedInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ConfiguredFeed(r.Context(), uid, in)
}

// @Summary Posts of one source
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.SourceFeedInput true "Source and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/source [post]
func (h *handlers) source(r *stdhttp.Request, in domain.SourceFeedInput) (any, error) {
	return h.svc.SourceFeed(r.Context(), in)
}

// @Summary Posts carrying one tag
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.TagFeedInput true "Tag and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/tag [post]
func (h *handlers) tag(r *stdhttp.Request, in domain.TagFeedInput) (any, error) {
	return h.svc.TagFeed(r.Context(), in)
}

// @Summary Posts linked to one keyword
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.KeywordFeedInput true "Keyword and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/keyword [post]
func (h *handlers) keyword(r *stdhttp.Request, in domain.KeywordFeedInput) (any, error) {
	return h.svc.KeywordFeed(r.Context(), in)
}

// @Summary Posts of one author
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.AuthorFeedInput true "Author and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/author [post]
func (h *handlers) author(r *stdhttp.Request, in domain.AuthorFeedInput) (any, error) {
	return h.svc.AuthorFeed(r.Context(), in)
}

// @Summary Full text search, most viewed first
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Query and connection args"
// @Success 200 {object} domain.SearchConnection "ok"
// @Router /feeds/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.Search(r.Context(), in)
}

// @Summary Highlighted title suggestions
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.SuggestionsInput true "Query"
// @Success 200 {object} domain.SuggestionsResult "ok"
// @Router /feeds/search/suggestions [post]
func (h *handlers) suggestions(r *stdhttp.Request, in domain.SuggestionsInput) (any, error) {
	return h.svc.Suggestions(r.Context(), in)
}

// @Summary Most upvoted posts of the last 7, 30, or 365 days
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.MostUpvotedInput true "Period and connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/most-upvoted [post]
func (h *handlers) mostUpvoted(r *stdhttp.Request, in domain.MostUpvotedInput) (any, error) {
	return h.svc.MostUpvoted(r.Context(), in)
}

// @Summary Posts by discussion score
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.MostDiscussedInput true "Connection args"
// @Success 200 {object} domain.PostConnection "ok"
// @Router /feeds/most-discussed [post]
func (h *handlers) mostDiscussed(r *stdhttp.Request, in domain.MostDiscussedInput) (any, error) {
	return h.svc.MostDiscussed(r.Context(), in)
}

// @Summary Random trending posts
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.RandomInput true "Sample size and excluded post"
// @Success 200 {array} domain.Post "ok"
// @Router /feeds/random/trending [post]
func (h *handlers) randomTrending(r *stdhttp.Request, in domain.RandomInput) (any, error) {
	return h.svc.RandomTrending(r.Context(), in)
}

// @Summary Random posts similar to a post
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.RandomSimilarInput true "Post and sample size"
// @Success 200 {array} domain.Post "ok"
// @Router /feeds/random/similar [post]
func (h *handlers) randomSimilar(r *stdhttp.Request, in domain.RandomSimilarInput) (any, error) {
	return h.svc.RandomSimilar(r.Context(), in)
}

// @Summary Random posts matching tags
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.RandomByTagsInput true "Tags, excluded post, and sample size"
// @Success 200 {array} domain.Post "ok"
// @Router /feeds/random/similar-by-tags [post]
func (h *handlers) randomByTags(r *stdhttp.Request, in domain.RandomByTagsInput) (any, error) {
	return h.svc.RandomByTags(r.Context(), in)
}

// @Summary Random well discussed posts
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.RandomInput true "Sample size and excluded post"
// @Success 200 {array} domain.Post "ok"
// @Router /feeds/random/discussed [post]
func (h *handlers) randomDiscussed(r *stdhttp.Request, in domain.RandomInput) (any, error) {
	return h.svc.RandomDiscussed(r.Context(), in)
}

// @Summary The signed in user's feed settings
// @Tags Feeds
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.FeedSettings "ok"
// @Failure 401 {object} httpkit.Envelope "missing or invalid token"
// @Router /feeds/settings [get]
func (h *handlers) settings(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.FeedSettings(r.Context(), uid)
}
