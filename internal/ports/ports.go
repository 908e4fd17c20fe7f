package ports

import (
	"context"

	"ArticlesRenderer/internal/domain"
)

// ArticleAPI fetches articles from the JSON API. Endpoints may be absolute or root-relative.
type ArticleAPI interface {
	ListArticles(ctx context.Context, endpoint string) ([]domain.Article, error)
	GetArticle(ctx context.Context, endpoint string) (domain.Article, error)
}

// ResponseError is implemented by API errors that carry the raw response body for diagnostics.
type ResponseError interface {
	error
	ResponseBody() string
}

// PageStore loads page markup and persists rendered output.
type PageStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}
