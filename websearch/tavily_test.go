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

package websearch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantscout/quantscout/pipeline"
	"github.com/quantscout/quantscout/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const searchFixture = `{
	"answer": "short answer",
	"results": [
		{"title": "Earnings beat", "url": "https://news.example/a", "content": "Revenue rose.", "score": 0.91, "published_date": "2026-08-20"},
		{"title": "Guidance raised", "url": "https://news.example/b", "content": "Outlook improved.", "score": 0.84}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClientWithKey("test-key")
	client.SetEndpoint(server.URL)
	return client
}

func TestSearchSendsExpectedRequest(t *testing.T) {
	var captured []byte
	var authHeader string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		authHeader = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(searchFixture))
	})

	results, err := client.Search(t.Context(), SearchParams{
		Query:     "NVDA earnings",
		Topic:     TopicNews,
		TimeRange: "week",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Bearer test-key", authHeader)
	body := gjson.ParseBytes(captured)
	assert.Equal(t, "NVDA earnings", body.Get("query").String())
	assert.Equal(t, "news", body.Get("topic").String())
	assert.Equal(t, int64(5), body.Get("max_results").Int())
	assert.Equal(t, "week", body.Get("time_range").String())

	assert.Equal(t, "Earnings beat", results[0].Title)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "2026-08-20", results[0].PublishedDate)
	assert.Empty(t, results[1].PublishedDate)
}

func TestSearchOmitsEmptyTimeRange(t *testing.T) {
	var captured []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	results, err := client.Search(t.Context(), SearchParams{Query: "NVDA"})
	require.NoError(t, err)
	assert.Empty(t, results)

	body := gjson.ParseBytes(captured)
	assert.Equal(t, "general", body.Get("topic").String())
	assert.False(t, body.Get("time_range").Exists())
}

func TestSearchReportsAPIFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	})

	_, err := client.Search(t.Context(), SearchParams{Query: "NVDA"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNewsSearchToolRegistersSources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchFixture))
	})

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(NewsSearchTool(client)))

	sources := pipeline.NewSourceList()
	ctx := pipeline.WithSources(t.Context(), sources)

	result := registry.Dispatch(ctx, tools.Call{
		ID:        "call_1",
		Name:      "search_news",
		Arguments: `{"query": "NVDA earnings"}`,
	})
	require.Equal(t, tools.StatusOK, result.Status)

	assert.Contains(t, result.Payload, "[source 1] Earnings beat")
	assert.Contains(t, result.Payload, "[source 2] Guidance raised")
	require.Equal(t, 2, sources.Len())
	assert.Equal(t, "https://news.example/a", sources.Sources()[0].URL)
}

func TestNewsSearchToolWithoutSourceList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchFixture))
	})

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(NewsSearchTool(client)))

	result := registry.Dispatch(t.Context(), tools.Call{
		ID:        "call_1",
		Name:      "search_news",
		Arguments: `{"query": "NVDA earnings"}`,
	})
	require.Equal(t, tools.StatusOK, result.Status)
	assert.NotContains(t, result.Payload, "[source")
	assert.Contains(t, result.Payload, "Earnings beat")
}
