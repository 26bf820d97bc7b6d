// Package cms is the HTTP client for the upstream CMS API. All portal
// content comes from here; nothing is persisted locally. Every call carries
// the static API key, runs under a bounded timeout, and is retried at most
// once on transient failure — a slow upstream must never hang a request.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"meridiansport/internal/taxonomy"
)

// ErrNotFound reports that the upstream genuinely does not have the
// requested resource (HTTP 404). It is never retried.
var ErrNotFound = errors.New("cms: not found")

// ErrNotConfigured reports that no backend URL is configured. Callers
// treat this as "skip the lookup", not as a request failure.
var ErrNotConfigured = errors.New("cms: backend url not configured")

const (
	// articleTimeout bounds article lookups on the hot request path.
	articleTimeout = 5 * time.Second

	// categoriesTimeout bounds category-tree lookups, which gate redirects
	// and therefore get a tighter budget.
	categoriesTimeout = 3 * time.Second

	feedTimeout = 5 * time.Second
)

// Client talks to the upstream CMS. The zero value is not usable; use New.
type Client struct {
	backendURL string
	feedURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a CMS client. backendURL may be empty, in which case every
// call returns ErrNotConfigured. feedURL is the RSS upstream base.
func New(backendURL, feedURL, apiKey string) *Client {
	return &Client{
		backendURL: backendURL,
		feedURL:    feedURL,
		apiKey:     apiKey,
		// Hard upper bound; individual calls set tighter context deadlines.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a backend URL is set.
func (c *Client) Configured() bool {
	return c.backendURL != ""
}

// ArticleBySlug fetches the article published under (category, slug).
// Returns ErrNotFound for a genuine 404.
func (c *Client) ArticleBySlug(ctx context.Context, category, slug string) (*taxonomy.Article, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, articleTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/getArticlesBySlug/%s/%s",
		c.backendURL, url.PathEscape(category), url.PathEscape(slug))

	var resp struct {
		Article *taxonomy.Article `json:"article"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Article == nil {
		return nil, fmt.Errorf("cms: response for %s/%s has no article", category, slug)
	}
	return resp.Article, nil
}

// Categories fetches the live category tree (getCategories endpoint,
// wrapped in a result envelope).
func (c *Client) Categories(ctx context.Context) ([]taxonomy.Category, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, categoriesTimeout)
	defer cancel()

	var resp struct {
		Result struct {
			Categories []taxonomy.Category `json:"categories"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, c.backendURL+"/getCategories", &resp); err != nil {
		return nil, err
	}
	return resp.Result.Categories, nil
}

// AllCategories fetches the flat category list (getAllCategories endpoint,
// no envelope). Used by the RSS feed to resolve a category slug to its ID.
func (c *Client) AllCategories(ctx context.Context) ([]taxonomy.Category, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, categoriesTimeout)
	defer cancel()

	var resp struct {
		Categories []taxonomy.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, c.backendURL+"/getAllCategories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// FeedXML fetches a raw RSS document from the feed upstream. categoryID 0
// requests the site-wide feed; page "1" or "" requests the first page.
func (c *Client) FeedXML(ctx context.Context, categoryID int64, page string) ([]byte, error) {
	if c.feedURL == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()

	endpoint := c.feedURL
	q := url.Values{}
	if categoryID != 0 {
		q.Set("category", fmt.Sprintf("%d", categoryID))
	}
	if page != "" && page != "1" {
		q.Set("page", page)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := c.get(ctx, endpoint, "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, err
	}
	return body, nil
}

// getJSON fetches endpoint and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.get(ctx, endpoint, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("cms: decode %s: %w", endpoint, err)
	}
	return nil
}

// get performs a GET with one retry on transient failure. A 404 maps to
// ErrNotFound immediately; other non-2xx statuses are errors. Context
// cancellation aborts both the request and any pending retry.
func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, retryable, err := c.doGet(ctx, endpoint, accept)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// doGet executes a single GET. The second return value reports whether the
// failure is transient (network error or 5xx) and worth one retry.
func (c *Client) doGet(ctx context.Context, endpoint, accept string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Don't retry a cancelled request.
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("cms: get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("cms: get %s: upstream status %d", endpoint, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("cms: get %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("cms: read %s: %w", endpoint, err)
	}
	return body, false, nil
}
