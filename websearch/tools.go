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
	"context"
	"fmt"
	"strings"

	"github.com/quantscout/quantscout/pipeline"
	"github.com/quantscout/quantscout/tools"
)

type searchArgs struct {
	Query      string `json:"query" jsonschema_description:"Search query text."`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of results, default 5."`
	TimeRange  string `json:"time_range,omitempty" jsonschema_description:"Restrict result age: day, week, month or year."`
}

// NewsSearchTool searches recent news. Each hit is registered as a numbered
// source before the payload is returned, so the model can cite it on its
// next turn.
func NewsSearchTool(client *Client) tools.Function {
	return tools.NewFunctionTool("search_news",
		"Search recent news coverage. Results are numbered sources; cite them as [source N].",
		func(ctx context.Context, args searchArgs) (string, error) {
			results, err := client.SearchNews(ctx, args.Query, args.MaxResults)
			if err != nil {
				return "", err
			}
			return formatResults(ctx, results), nil
		})
}

// FinanceSearchTool searches the finance vertical for filings, market
// commentary and fundamentals.
func FinanceSearchTool(client *Client) tools.Function {
	return tools.NewFunctionTool("search_finance",
		"Search financial data and market commentary. Results are numbered sources; cite them as [source N].",
		func(ctx context.Context, args searchArgs) (string, error) {
			results, err := client.Search(ctx, SearchParams{
				Query:      args.Query,
				Topic:      TopicFinance,
				MaxResults: args.MaxResults,
				TimeRange:  args.TimeRange,
			})
			if err != nil {
				return "", err
			}
			return formatResults(ctx, results), nil
		})
}

// formatResults registers every hit on the run's source list and renders the
// payload with the assigned markers.
func formatResults(ctx context.Context, results []Result) string {
	if len(results) == 0 {
		return "no results found"
	}

	sources := pipeline.SourcesFromContext(ctx)
	var sb strings.Builder
	for _, result := range results {
		marker := ""
		if sources != nil {
			index := sources.Add(result.URL, result.Title, result.Content)
			marker = fmt.Sprintf("[source %d] ", index)
		}
		fmt.Fprintf(&sb, "%s%s\n%s\n", marker, result.Title, result.URL)
		if result.PublishedDate != "" {
			fmt.Fprintf(&sb, "published: %s\n", result.PublishedDate)
		}
		sb.WriteString(result.Content + "\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
