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

// Command quantscout-mcp exposes the search and market data tools over MCP
// stdio, so external MCP clients can use them directly.
//
// Client configuration example:
//
//	{
//	  "mcpServers": {
//	    "quantscout": {"command": "quantscout-mcp"}
//	  }
//	}
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/quantscout/quantscout/marketdata"
	"github.com/quantscout/quantscout/websearch"
)

type searchParams struct {
	Query      string `json:"query" jsonschema:"search query text"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results, default 5"`
	TimeRange  string `json:"time_range,omitempty" jsonschema:"restrict result age: day, week, month or year"`
}

type searchResult struct {
	Results []websearch.Result `json:"results"`
}

type quoteParams struct {
	Symbol string `json:"symbol" jsonschema:"Stooq-style ticker, e.g. nvda.us or 2330.tw"`
	Days   int    `json:"days,omitempty" jsonschema:"number of most recent trading days, default 10"`
}

type quoteResult struct {
	Quotes []marketdata.Quote `json:"quotes"`
}

type metricsParams struct {
	Symbol string `json:"symbol" jsonschema:"Stooq-style ticker, e.g. nvda.us or 2330.tw"`
	Days   int    `json:"days,omitempty" jsonschema:"lookback window in trading days, default 252"`
}

type metricsResult struct {
	Metrics marketdata.Metrics `json:"metrics"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{Name: "quantscout"}, nil)

	if search, err := websearch.NewClient(); err != nil {
		fmt.Fprintln(os.Stderr, "search tools disabled:", err)
	} else {
		addSearchTool(server, "search_news",
			"Search recent news coverage.",
			func(ctx context.Context, params searchParams) ([]websearch.Result, error) {
				return search.Search(ctx, websearch.SearchParams{
					Query:      params.Query,
					Topic:      websearch.TopicNews,
					MaxResults: params.MaxResults,
					TimeRange:  params.TimeRange,
				})
			})
		addSearchTool(server, "search_finance",
			"Search financial data and market commentary.",
			func(ctx context.Context, params searchParams) ([]websearch.Result, error) {
				return search.Search(ctx, websearch.SearchParams{
					Query:      params.Query,
					Topic:      websearch.TopicFinance,
					MaxResults: params.MaxResults,
					TimeRange:  params.TimeRange,
				})
			})
	}

	quotes := marketdata.NewClient()
	mcp.AddTool(
		server, &mcp.Tool{Name: "get_stock_price", Description: "Fetch recent daily OHLCV bars for a ticker."},
		func(ctx context.Context, _ *mcp.CallToolRequest, params quoteParams) (*mcp.CallToolResult, quoteResult, error) {
			days := params.Days
			if days <= 0 {
				days = 10
			}
			bars, err := quotes.DailyQuotes(ctx, params.Symbol, days)
			if err != nil {
				return nil, quoteResult{}, err
			}
			var sb strings.Builder
			for _, q := range bars {
				fmt.Fprintf(&sb, "%s %.2f %.2f %.2f %.2f %d\n",
					q.Date, q.Open, q.High, q.Low, q.Close, q.Volume)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimRight(sb.String(), "\n")}},
			}, quoteResult{Quotes: bars}, nil
		},
	)

	mcp.AddTool(
		server, &mcp.Tool{Name: "get_price_metrics", Description: "Compute return, drawdown and volatility statistics over a ticker's recent daily closes."},
		func(ctx context.Context, _ *mcp.CallToolRequest, params metricsParams) (*mcp.CallToolResult, metricsResult, error) {
			days := params.Days
			if days <= 0 {
				days = 252
			}
			bars, err := quotes.DailyQuotes(ctx, params.Symbol, days)
			if err != nil {
				return nil, metricsResult{}, err
			}
			metrics, err := marketdata.CalcMetrics(bars)
			if err != nil {
				return nil, metricsResult{}, err
			}
			text := fmt.Sprintf(
				"total_return: %.2f%%\nannualized_return: %.2f%%\nsharpe_ratio: %.2f\nmax_drawdown: %.2f%%\nwin_rate: %.1f%%",
				metrics.TotalReturn*100, metrics.AnnualizedReturn*100,
				metrics.SharpeRatio, metrics.MaxDrawdown*100, metrics.WinRate*100)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
			}, metricsResult{Metrics: metrics}, nil
		},
	)

	return server.Run(ctx, &mcp.StdioTransport{})
}

func addSearchTool(
	server *mcp.Server,
	name, description string,
	search func(ctx context.Context, params searchParams) ([]websearch.Result, error),
) {
	mcp.AddTool(
		server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, params searchParams) (*mcp.CallToolResult, searchResult, error) {
			results, err := search(ctx, params)
			if err != nil {
				return nil, searchResult{}, err
			}
			var sb strings.Builder
			for _, r := range results {
				fmt.Fprintf(&sb, "%s\n%s\n%s\n\n", r.Title, r.URL, r.Content)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimRight(sb.String(), "\n")}},
			}, searchResult{Results: results}, nil
		},
	)
}
