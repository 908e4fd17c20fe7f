package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/PuerkitoBio/goquery"

	"ArticlesRenderer/internal/dom"
	"ArticlesRenderer/internal/domain"
	"ArticlesRenderer/internal/loop"
	"ArticlesRenderer/internal/ports"
	"ArticlesRenderer/internal/text"
)

// ErrorMessage is shown in the banner when the feed cannot be loaded.
const ErrorMessage = "We could not load the articles feed right now. Please refresh or try again later."

const (
	defaultDetailPath = "article.html"
	errorClass        = "error"
)

// State is the visible condition of a feed section.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateEmpty
	StatePopulated
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Slots names the placeholders inside a card template.
type Slots struct {
	Meta     string
	Title    string
	Abstract string
	Author   string
	PDF      string
	Read     string
}

// DefaultSlots returns the placeholders shared by every card template.
func DefaultSlots() Slots {
	return Slots{
		Meta:     "[data-issue-article-meta]",
		Title:    "[data-issue-article-title]",
		Abstract: "[data-issue-article-abstract]",
		Author:   "[data-home-article-author]",
		PDF:      "[data-issue-article-pdf]",
		Read:     "[data-issue-article-read]",
	}
}

// Config selects the page section a Controller owns.
type Config struct {
	GridSelector     string
	TemplateSelector string
	EmptySelector    string
	BannerSelector   string
	// Limit caps the number of rendered cards; zero or less means no cap.
	Limit      int
	Slots      *Slots
	DetailPath string
}

// Controller fetches the article collection and renders it into one section of a page.
type Controller struct {
	cfg    Config
	slots  Slots
	page   *dom.Page
	api    ports.ArticleAPI
	logger *slog.Logger

	grid     *goquery.Selection
	template *goquery.Selection
	empty    *goquery.Selection
	banner   *goquery.Selection

	state    State
	rendered int
}

// New binds a controller to the section of page described by cfg.
func New(page *dom.Page, cfg Config, api ports.ArticleAPI, logger *slog.Logger) *Controller {
	slots := DefaultSlots()
	if cfg.Slots != nil {
		slots = *cfg.Slots
	}
	if cfg.DetailPath == "" {
		cfg.DetailPath = defaultDetailPath
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	return &Controller{
		cfg:    cfg,
		slots:  slots,
		page:   page,
		api:    api,
		logger: logger,
	}
}

// State reports the current section state.
func (c *Controller) State() State {
	return c.state
}

// Rendered reports how many cards the last successful load appended.
func (c *Controller) Rendered() int {
	return c.rendered
}

// Start issues the collection request on l. It returns false without doing
// anything when the page has no grid or template for this section.
func (c *Controller) Start(l *loop.Loop) bool {
	c.grid = c.page.Query(c.cfg.GridSelector)
	c.template = c.page.Query(c.cfg.TemplateSelector)
	if !dom.Exists(c.grid) || !dom.Exists(c.template) {
		return false
	}
	c.empty = c.optional(c.cfg.EmptySelector)
	c.banner = c.optional(c.cfg.BannerSelector)

	c.transition(StateLoading)

	endpoint := domain.CollectionEndpoint(c.page.APIBase())
	c.logger.Debug("fetch articles", "endpoint", endpoint, "limit", c.cfg.Limit)

	l.Go(func(ctx context.Context) func() {
		articles, err := c.api.ListArticles(ctx, endpoint)
		return func() {
			if err != nil {
				c.fail(endpoint, err)
				return
			}
			c.render(articles)
		}
	})

	return true
}

func (c *Controller) optional(selector string) *goquery.Selection {
	if selector == "" {
		return new(goquery.Selection)
	}
	return c.page.Query(selector)
}

// transition is the only place that changes section visibility.
func (c *Controller) transition(next State) {
	c.state = next

	switch next {
	case StateLoading:
		dom.SetHidden(c.banner, true)
		c.banner.SetText("")
		c.banner.RemoveClass(errorClass)
		dom.SetHidden(c.empty, true)
	case StateEmpty:
		c.grid.Empty()
		dom.SetHidden(c.empty, false)
	case StatePopulated:
		c.grid.Empty()
		dom.SetHidden(c.empty, true)
	case StateError:
		c.grid.Empty()
		dom.SetHidden(c.banner, false)
		c.banner.SetText(ErrorMessage)
		c.banner.AddClass(errorClass)
	}
}

func (c *Controller) fail(endpoint string, err error) {
	var respErr ports.ResponseError
	if errors.As(err, &respErr) {
		c.logger.Error("api error details", "endpoint", endpoint, "body", respErr.ResponseBody())
	}
	c.logger.Error("load articles feed", "endpoint", endpoint, "error", err)

	c.rendered = 0
	c.transition(StateError)
}

func (c *Controller) render(articles []domain.Article) {
	if c.cfg.Limit > 0 && len(articles) > c.cfg.Limit {
		articles = articles[:c.cfg.Limit]
	}

	c.rendered = len(articles)
	if len(articles) == 0 {
		c.transition(StateEmpty)
		return
	}

	c.transition(StatePopulated)
	for _, article := range articles {
		card := dom.CloneTemplate(c.template)
		c.populate(card, article)
		c.grid.AppendSelection(card)
	}
}

func (c *Controller) populate(card *goquery.Selection, article domain.Article) {
	dom.QueryIn(card, c.slots.Meta).SetText(article.Meta())
	dom.QueryIn(card, c.slots.Title).SetText(article.DisplayTitle())

	if author := dom.QueryIn(card, c.slots.Author); dom.Exists(author) {
		author.SetText(article.AuthorLine())
		dom.SetHidden(author, article.Author == "")
	}

	abstract := dom.QueryIn(card, c.slots.Abstract)
	if fragment := text.ParagraphsHTML(article.Abstract); fragment != "" {
		abstract.SetHtml(fragment)
	} else {
		abstract.SetText(domain.DefaultAbstract)
	}

	dom.SetLink(dom.QueryIn(card, c.slots.PDF), article.PDFURL)
	dom.SetLink(dom.QueryIn(card, c.slots.Read), article.DetailURL(c.cfg.DetailPath))
}
