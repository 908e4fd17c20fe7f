package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/infrastructure/api"
	"ArticlesRenderer/internal/pages"
)

const issuesSource = `<!DOCTYPE html>
<html><body>
<footer>&copy; <span data-year></span></footer>
<p data-issues-articles-banner hidden></p>
<p data-issues-articles-empty hidden>No articles yet.</p>
<div data-issues-articles-grid></div>
<template id="issue-article-card-template">
  <article class="card">
    <p data-issue-article-meta></p>
    <h3 data-issue-article-title></h3>
    <div data-issue-article-abstract></div>
    <a data-issue-article-pdf href="#">PDF</a>
    <a data-issue-article-read href="#">Read</a>
  </article>
</template>
</body></html>`

const articleSource = `<!DOCTYPE html>
<html><body>
<main data-article-page>
  <p data-article-loading>Loading</p>
  <p data-article-error hidden></p>
  <header data-article-hero hidden><h1 data-article-title></h1><p data-article-meta></p></header>
  <section data-article-content hidden>
    <p data-article-abstract></p>
    <div data-article-body></div>
    <a data-article-pdf href="#">PDF</a>
  </section>
</main>
</body></html>`

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore(files map[string]string) *memStore {
	s := &memStore{files: map[string][]byte{}}
	for k, v := range files {
		s.files[k] = []byte(v)
	}
	return s
}

func (m *memStore) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return data, nil
}

func (m *memStore) Write(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) doc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	require.True(t, ok, "missing output %s", path)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	return doc
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/articles":
			_, _ = w.Write([]byte(`[
				{"id": "1", "title": "Campus news", "author": "Lee", "created_at_display": "May 05, 2025 10:00 UTC", "abstract": "One.\n\nTwo.", "pdf_url": "/api/pdf/1"},
				{"id": "2", "title": "Opinion", "author": "", "abstract": "", "pdf_url": null}
			]`))
		case "/articles/1":
			_, _ = w.Write([]byte(`{"id": "1", "title": "Campus news", "author": "Lee", "abstract": "One.", "body": "Body one.\n\nBody two.", "pdf_url": "/api/pdf/1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newRenderer(t *testing.T, server *httptest.Server, store *memStore) *Renderer {
	t.Helper()

	client, err := api.NewClient(config.APIConfig{Origin: server.URL}, server.Client())
	require.NoError(t, err)

	return NewRenderer(RendererDeps{
		API:         client,
		Store:       store,
		Registry:    pages.DefaultRegistry(),
		Now:         func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) },
		DetailPath:  "article.html",
		Concurrency: 2,
	})
}

func TestRenderPages(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t)
	store := newMemStore(map[string]string{
		"site/issues.html":  issuesSource,
		"site/article.html": articleSource,
	})
	renderer := newRenderer(t, server, store)

	results, err := renderer.RenderPages(context.Background(), []config.PageConfig{
		{Name: "issues", Input: "site/issues.html", Output: "dist/issues.html"},
		{Name: "article-1", Input: "site/article.html", Output: "dist/article-1.html", URL: "https://example.org/article.html?id=1"},
		{Name: "article-missing", Input: "site/article.html", Output: "dist/article-missing.html", URL: "https://example.org/article.html?id=404"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{pages.IssuesFeed}, results[0].Sections)
	assert.Equal(t, []string{pages.ArticleDetail}, results[1].Sections)

	issues := store.doc(t, "dist/issues.html")
	assert.Equal(t, "2025", issues.Find("[data-year]").Text())
	cards := issues.Find("[data-issues-articles-grid] article.card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "By Lee · May 05, 2025 10:00 UTC", cards.Eq(0).Find("[data-issue-article-meta]").Text())
	assert.Equal(t, 2, cards.Eq(0).Find("[data-issue-article-abstract] p").Length())
	assert.Equal(t, "Abstract coming soon.", cards.Eq(1).Find("[data-issue-article-abstract]").Text())
	pdfHref, _ := cards.Eq(1).Find("[data-issue-article-pdf]").Attr("href")
	assert.Equal(t, "#", pdfHref)

	article := store.doc(t, "dist/article-1.html")
	assert.Equal(t, "Campus news", article.Find("[data-article-title]").Text())
	assert.Equal(t, 2, article.Find("[data-article-body] p").Length())
	_, hidden := article.Find("[data-article-content]").Attr("hidden")
	assert.False(t, hidden)

	missing := store.doc(t, "dist/article-missing.html")
	assert.Equal(t, "We could not load this article. Please try again later.", missing.Find("[data-article-error]").Text())
}

func TestRenderPageRestrictsInitializers(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t)
	store := newMemStore(map[string]string{"site/issues.html": issuesSource})
	renderer := newRenderer(t, server, store)

	res, err := renderer.RenderPage(context.Background(), config.PageConfig{
		Input:        "site/issues.html",
		Output:       "dist/issues.html",
		Initializers: []string{pages.HomeFeed},
	})
	require.NoError(t, err)
	assert.Equal(t, "site/issues.html", res.Name)
	assert.Empty(t, res.Sections)

	doc := store.doc(t, "dist/issues.html")
	assert.Equal(t, 0, doc.Find("[data-issues-articles-grid] article").Length())
}

func TestRenderPageErrors(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t)
	store := newMemStore(map[string]string{"site/issues.html": issuesSource})
	renderer := newRenderer(t, server, store)
	ctx := context.Background()

	_, err := renderer.RenderPage(ctx, config.PageConfig{Input: "site/absent.html", Output: "dist/x.html"})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = renderer.RenderPage(ctx, config.PageConfig{Input: "site/issues.html", Output: "dist/x.html", Initializers: []string{"sidebar"}})
	require.Error(t, err)

	_, err = renderer.RenderPage(ctx, config.PageConfig{Input: "site/issues.html"})
	require.Error(t, err)

	_, err = renderer.RenderPages(ctx, []config.PageConfig{
		{Name: "ok", Input: "site/issues.html", Output: "dist/ok.html"},
		{Name: "broken", Input: "site/absent.html", Output: "dist/broken.html"},
	})
	require.Error(t, err)
	store.doc(t, "dist/ok.html")
}
