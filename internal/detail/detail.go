package detail

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

// Messages shown in the error element of the detail page.
const (
	// NotFoundMessage is shown when the page location carries no article id.
	NotFoundMessage = "Article not found."
	// LoadErrorMessage is shown when the article request fails.
	LoadErrorMessage = "We could not load this article. Please try again later."
)

// Selectors used on the detail page.
const (
	PageSelector     = "[data-article-page]"
	ErrorSelector    = "[data-article-error]"
	LoadingSelector  = "[data-article-loading]"
	HeroSelector     = "[data-article-hero]"
	ContentSelector  = "[data-article-content]"
	TitleSelector    = "[data-article-title]"
	MetaSelector     = "[data-article-meta]"
	AbstractSelector = "[data-article-abstract]"
	BodySelector     = "[data-article-body]"
	PDFSelector      = "[data-article-pdf]"
)

// State is the visible condition of the detail page.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Controller loads one article, picked by the ?id= parameter of the page location.
type Controller struct {
	page   *dom.Page
	api    ports.ArticleAPI
	logger *slog.Logger

	errorEl  *goquery.Selection
	loading  *goquery.Selection
	hero     *goquery.Selection
	content  *goquery.Selection
	title    *goquery.Selection
	meta     *goquery.Selection
	abstract *goquery.Selection
	body     *goquery.Selection
	pdfLinks *goquery.Selection

	state   State
	message string
}

// New binds a controller to page. A nil logger discards output.
func New(page *dom.Page, api ports.ArticleAPI, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Controller{page: page, api: api, logger: logger}
}

// State reports the current state of the page.
func (c *Controller) State() State {
	return c.state
}

// Message is the error text shown to the reader, if any.
func (c *Controller) Message() string {
	return c.message
}

// Start returns false when the page is not a detail page. A missing id is
// rendered as an error immediately and no request is made.
func (c *Controller) Start(l *loop.Loop) bool {
	if !dom.Exists(c.page.Query(PageSelector)) {
		return false
	}

	c.errorEl = c.page.Query(ErrorSelector)
	c.loading = c.page.Query(LoadingSelector)
	c.hero = c.page.Query(HeroSelector)
	c.content = c.page.Query(ContentSelector)
	c.title = c.page.Query(TitleSelector)
	c.meta = c.page.Query(MetaSelector)
	c.abstract = c.page.Query(AbstractSelector)
	c.body = c.page.Query(BodySelector)
	c.pdfLinks = c.page.QueryAll(PDFSelector)

	id := c.page.QueryParam("id")
	if id == "" {
		c.showError(NotFoundMessage)
		return true
	}

	c.state = StateLoading
	endpoint := domain.ItemEndpoint(c.page.APIBase(), id)
	c.logger.Debug("fetch article", "endpoint", endpoint)

	l.Go(func(ctx context.Context) func() {
		article, err := c.api.GetArticle(ctx, endpoint)
		return func() {
			if err != nil {
				var respErr ports.ResponseError
				if errors.As(err, &respErr) {
					c.logger.Error("api error details", "endpoint", endpoint, "body", respErr.ResponseBody())
				}
				c.logger.Error("load article", "endpoint", endpoint, "error", err)
				c.showError(LoadErrorMessage)
				return
			}
			c.show(article)
		}
	})

	return true
}

func (c *Controller) showError(message string) {
	c.state = StateError
	c.message = message

	dom.SetHidden(c.loading, true)
	dom.SetHidden(c.hero, true)
	dom.SetHidden(c.content, true)
	c.errorEl.SetText(message)
	dom.SetHidden(c.errorEl, false)
}

func (c *Controller) show(article domain.Article) {
	c.state = StateLoaded
	c.message = ""

	dom.SetHidden(c.loading, true)
	dom.SetHidden(c.hero, false)
	dom.SetHidden(c.content, false)
	dom.SetHidden(c.errorEl, true)

	c.title.SetText(article.DisplayTitle())
	c.meta.SetText(article.Meta())

	abstract := article.Abstract
	if abstract == "" {
		abstract = domain.DefaultAbstract
	}
	c.abstract.SetText(abstract)

	c.renderBody(article.Body)
	dom.SetLink(c.pdfLinks, article.PDFURL)
}

func (c *Controller) renderBody(raw string) {
	if !dom.Exists(c.body) {
		return
	}
	c.body.Empty()

	paragraphs := text.SplitParagraphs(raw)
	if len(paragraphs) == 0 {
		c.body.AppendNodes(dom.NewParagraph(domain.DefaultBody))
		return
	}
	for _, p := range paragraphs {
		c.body.AppendNodes(dom.NewParagraph(p))
	}
}
