// Package newsapi calls the external news-search API.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/newsbrief/newsbrief/internal/model"
)

const (
	language  = "en"
	sortOrder = "publishedAt"
)

// Options configures the client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a small wrapper around retryablehttp with a bounded timeout.
type Client struct {
	baseURL string
	apiKey  string
	inner   *http.Client
}

func NewClient(opts Options) *Client {
	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.HTTPClient.Timeout = opts.Timeout
	r.Logger = nil
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		inner:   r.StandardClient(),
	}
}

// Search runs a full-text query, most recent first, English only. Articles
// are returned as raw payloads; a missing or malformed articles field decodes
// to an empty list.
func (c *Client) Search(ctx context.Context, query string) ([]model.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", language)
	params.Set("sortBy", sortOrder)
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("news search failed (%d)", resp.StatusCode)
	}

	var body struct {
		Articles []model.Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if body.Articles == nil {
		return []model.Article{}, nil
	}
	return body.Articles, nil
}
