package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleMeta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "By Unknown author", Article{}.Meta())
	assert.Equal(t, "By Ada", Article{Author: "Ada"}.Meta())
	assert.Equal(t, "By Unknown author · Jan 02, 2025 10:00 UTC", Article{CreatedAtDisplay: "Jan 02, 2025 10:00 UTC"}.Meta())
	assert.Equal(t, "By Ada · Jan 02", Article{Author: "Ada", CreatedAtDisplay: "Jan 02"}.Meta())
}

func TestArticleDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultTitle, Article{}.DisplayTitle())
	assert.Equal(t, "Essay", Article{Title: "Essay"}.DisplayTitle())
	assert.Equal(t, "", Article{}.AuthorLine())
	assert.Equal(t, "By Ada", Article{Author: "Ada"}.AuthorLine())
}

func TestArticleDetailURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Article{}.DetailURL("article.html"))
	assert.Equal(t, "article.html?id=65f0a1", Article{ID: "65f0a1"}.DetailURL("article.html"))
	assert.Equal(t, "article.html?id=a+b%26c", Article{ID: "a b&c"}.DetailURL("article.html"))
}

func TestEndpoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/articles", CollectionEndpoint(""))
	assert.Equal(t, "https://api.example.org/articles", CollectionEndpoint("https://api.example.org"))
	assert.Equal(t, "https://api.example.org/articles", CollectionEndpoint("https://api.example.org/"))
	assert.Equal(t, "/articles/42", ItemEndpoint("", "42"))
	assert.Equal(t, "/api/articles/a%2Fb", ItemEndpoint("/api", "a/b"))
}
