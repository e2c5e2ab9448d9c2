// Copyright 2026 The QuantScout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package websearch is a thin Tavily search client. The core treats it as an
// opaque collaborator: it exposes tool definitions and registers the sources
// it retrieves.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultEndpoint   = "https://api.tavily.com/search"
	defaultMaxResults = 5
	requestTimeout    = 30 * time.Second
)

// Topic selects a Tavily search vertical.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicNews    Topic = "news"
	TopicFinance Topic = "finance"
)

// Result is one search hit.
type Result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// Client calls the Tavily HTTP API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient reads TAVILY_API_KEY from the environment.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not set in environment")
	}
	return NewClientWithKey(apiKey), nil
}

func NewClientWithKey(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// SetEndpoint overrides the API endpoint, for tests.
func (c *Client) SetEndpoint(endpoint string) { c.endpoint = endpoint }

// SearchParams shape one search request. Zero values mean the API defaults.
type SearchParams struct {
	Query      string
	Topic      Topic
	MaxResults int

	// TimeRange restricts result age: day, week, month or year.
	TimeRange string
}

// Search runs one query and parses the result list.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Result, error) {
	if params.Topic == "" {
		params.Topic = TopicGeneral
	}
	if params.MaxResults <= 0 {
		params.MaxResults = defaultMaxResults
	}

	payload := map[string]any{
		"query":          params.Query,
		"topic":          string(params.Topic),
		"max_results":    params.MaxResults,
		"include_answer": "basic",
	}
	if params.TimeRange != "" {
		payload["time_range"] = params.TimeRange
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, raw)
	}

	var results []Result
	gjson.GetBytes(raw, "results").ForEach(func(_, value gjson.Result) bool {
		results = append(results, Result{
			Title:         value.Get("title").String(),
			URL:           value.Get("url").String(),
			Content:       value.Get("content").String(),
			Score:         value.Get("score").Float(),
			PublishedDate: value.Get("published_date").String(),
		})
		return true
	})
	return results, nil
}

// SearchNews is the news-topic shortcut with a month default window.
func (c *Client) SearchNews(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return c.Search(ctx, SearchParams{
		Query:      query,
		Topic:      TopicNews,
		MaxResults: maxResults,
		TimeRange:  "month",
	})
}

// SearchFinance is the finance-topic shortcut.
func (c *Client) SearchFinance(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return c.Search(ctx, SearchParams{
		Query:      query,
		Topic:      TopicFinance,
		MaxResults: maxResults,
	})
}
