package domain

import (
	"net/url"
	"strings"
)

const (
	DefaultAuthor   = "Unknown author"
	DefaultTitle    = "Untitled article"
	DefaultAbstract = "Abstract coming soon."
	DefaultBody     = "Full article text is not available yet."
)

// Article is the transfer object returned by the articles API.
// It lives for a single render pass and is never mutated.
type Article struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	CreatedAtDisplay string `json:"created_at_display"`
	Abstract         string `json:"abstract"`
	Body             string `json:"body"`
	PDFURL           string `json:"pdf_url"`
}

// DisplayTitle falls back to a placeholder for untitled articles.
func (a Article) DisplayTitle() string {
	if a.Title == "" {
		return DefaultTitle
	}
	return a.Title
}

// Meta formats the "By author · date" line; the date part is omitted when blank.
func (a Article) Meta() string {
	author := a.Author
	if author == "" {
		author = DefaultAuthor
	}
	if a.CreatedAtDisplay == "" {
		return "By " + author
	}
	return "By " + author + " · " + a.CreatedAtDisplay
}

// AuthorLine is "By author", or empty when the article has no author.
func (a Article) AuthorLine() string {
	if a.Author == "" {
		return ""
	}
	return "By " + a.Author
}

// DetailURL links to the detail page for this article, or "" without an id.
func (a Article) DetailURL(detailPath string) string {
	if a.ID == "" {
		return ""
	}
	return detailPath + "?id=" + url.QueryEscape(a.ID)
}

// CollectionEndpoint is {base}/articles, or root-relative /articles without a base.
func CollectionEndpoint(apiBase string) string {
	return strings.TrimSuffix(apiBase, "/") + "/articles"
}

// ItemEndpoint is {base}/articles/{id}.
func ItemEndpoint(apiBase, id string) string {
	return CollectionEndpoint(apiBase) + "/" + url.PathEscape(id)
}
