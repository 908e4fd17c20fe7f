package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/domain"
	"ArticlesRenderer/internal/ports"
)

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx API response. Body keeps the start of the payload for diagnostics.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("articles api returned %s", e.Status)
}

// ResponseBody returns the captured response payload.
func (e *StatusError) ResponseBody() string {
	return e.Body
}

// Client talks to the articles JSON API.
type Client struct {
	origin    *url.URL
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

var (
	_ ports.ArticleAPI    = (*Client)(nil)
	_ ports.ResponseError = (*StatusError)(nil)
)

// NewClient resolves relative endpoints against cfg.Origin. A nil httpClient gets the configured timeout.
func NewClient(cfg config.APIConfig, httpClient *http.Client) (*Client, error) {
	var origin *url.URL
	if cfg.Origin != "" {
		parsed, err := url.Parse(cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("invalid api origin %s: %w", cfg.Origin, err)
		}
		origin = parsed
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		origin:    origin,
		userAgent: cfg.UserAgent,
		http:      httpClient,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c, nil
}

// ListArticles fetches the collection. A payload that is not a JSON array is an empty collection.
func (c *Client) ListArticles(ctx context.Context, endpoint string) ([]domain.Article, error) {
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if !startsWith(raw, '[') {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, decodeArticle(item))
	}

	return articles, nil
}

// GetArticle fetches a single article. A payload that is not a JSON object yields a zero Article.
func (c *Client) GetArticle(ctx context.Context, endpoint string) (domain.Article, error) {
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return domain.Article{}, err
	}
	return decodeArticle(raw), nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(payload)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response from %s is not valid json", target)
	}

	return body, nil
}

func (c *Client) resolve(endpoint string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.origin == nil {
		return "", fmt.Errorf("relative endpoint %s needs an api origin", endpoint)
	}
	return c.origin.ResolveReference(ref).String(), nil
}

// decodeArticle never fails: a record that is not an object is a zero Article
// and a field of the wrong type is treated as absent.
func decodeArticle(raw []byte) domain.Article {
	var fields map[string]json.RawMessage
	if !startsWith(raw, '{') || json.Unmarshal(raw, &fields) != nil {
		return domain.Article{}
	}

	return domain.Article{
		ID:               fieldText(fields["id"]),
		Title:            fieldText(fields["title"]),
		Author:           fieldText(fields["author"]),
		CreatedAtDisplay: fieldText(fields["created_at_display"]),
		Abstract:         fieldText(fields["abstract"]),
		Body:             fieldText(fields["body"]),
		PDFURL:           fieldText(fields["pdf_url"]),
	}
}

// fieldText returns strings as is and non-zero numbers in decimal form.
// Zero, null, booleans, arrays and objects read as empty.
func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil || f == 0 {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return ""
	}
}

func startsWith(raw []byte, b byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == b
}
