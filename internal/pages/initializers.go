package pages

import (
	"strconv"
	"time"

	"ArticlesRenderer/internal/detail"
	"ArticlesRenderer/internal/dom"
	"ArticlesRenderer/internal/feed"
)

const (
	IssuesFeed    = "issues-feed"
	HomeFeed      = "home-feed"
	ArticlesIndex = "articles-index"
	ArticleDetail = "article-detail"
)

// FeedInitializer starts a feed controller for one configured section.
type FeedInitializer struct {
	name string
	cfg  feed.Config
}

func NewFeedInitializer(name string, cfg feed.Config) *FeedInitializer {
	return &FeedInitializer{name: name, cfg: cfg}
}

func (f *FeedInitializer) Name() string {
	return f.name
}

func (f *FeedInitializer) Init(env Env) bool {
	cfg := f.cfg
	if cfg.DetailPath == "" {
		cfg.DetailPath = env.DetailPath
	}
	ctrl := feed.New(env.Page, cfg, env.API, env.logger("feed."+f.name))
	return ctrl.Start(env.Loop)
}

// DetailInitializer starts the article detail controller.
type DetailInitializer struct{}

func (DetailInitializer) Name() string {
	return ArticleDetail
}

func (DetailInitializer) Init(env Env) bool {
	ctrl := detail.New(env.Page, env.API, env.logger("detail"))
	return ctrl.Start(env.Loop)
}

// IssuesFeedConfig is the issues page grid.
func IssuesFeedConfig() feed.Config {
	return feed.Config{
		GridSelector:     "[data-issues-articles-grid]",
		TemplateSelector: "#issue-article-card-template",
		EmptySelector:    "[data-issues-articles-empty]",
		BannerSelector:   "[data-issues-articles-banner]",
	}
}

// ArticlesIndexConfig is the articles index grid.
func ArticlesIndexConfig() feed.Config {
	return feed.Config{
		GridSelector:     "[data-articles-list-grid]",
		TemplateSelector: "#articles-list-card-template",
		EmptySelector:    "[data-articles-list-empty]",
		BannerSelector:   "[data-articles-list-banner]",
	}
}

// HomeFeedConfig is the home page highlight: only the newest article.
func HomeFeedConfig() feed.Config {
	return feed.Config{
		GridSelector:     "[data-home-articles-grid]",
		TemplateSelector: "#home-article-card-template",
		EmptySelector:    "[data-home-articles-empty]",
		BannerSelector:   "[data-home-articles-banner]",
		Limit:            1,
	}
}

// DefaultRegistry registers every page section of the site.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewFeedInitializer(IssuesFeed, IssuesFeedConfig()))
	reg.Register(NewFeedInitializer(HomeFeed, HomeFeedConfig()))
	reg.Register(NewFeedInitializer(ArticlesIndex, ArticlesIndexConfig()))
	reg.Register(DetailInitializer{})
	return reg
}

// Bootstrap applies page-wide touches that do not depend on the API.
func Bootstrap(page *dom.Page, now time.Time) {
	page.Query("[data-year]").SetText(strconv.Itoa(now.Year()))
}
