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

package marketdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantscout/quantscout/pipeline"
	"github.com/quantscout/quantscout/tools"
)

const (
	defaultQuoteDays   = 10
	defaultMetricsDays = 252
)

type quoteArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"Stooq-style ticker, e.g. nvda.us or 2330.tw."`
	Days   int    `json:"days,omitempty" jsonschema_description:"Number of most recent trading days, default 10."`
}

// StockPriceTool fetches recent daily bars for a ticker. The quote download
// is registered as a numbered source so price facts can be cited.
func StockPriceTool(client *Client) tools.Function {
	return tools.NewFunctionTool("get_stock_price",
		"Fetch recent daily open/high/low/close/volume bars for a ticker. The data is a numbered source; cite it as [source N].",
		func(ctx context.Context, args quoteArgs) (string, error) {
			days := args.Days
			if days <= 0 {
				days = defaultQuoteDays
			}
			quotes, err := client.DailyQuotes(ctx, args.Symbol, days)
			if err != nil {
				return "", err
			}

			marker := ""
			if sources := pipeline.SourcesFromContext(ctx); sources != nil {
				index := sources.Add(
					client.QuoteURL(args.Symbol),
					fmt.Sprintf("Daily quotes for %s", strings.ToLower(args.Symbol)),
					"")
				marker = fmt.Sprintf("[source %d] ", index)
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "%sdaily bars for %s (date open high low close volume):\n",
				marker, strings.ToLower(args.Symbol))
			for _, q := range quotes {
				fmt.Fprintf(&sb, "%s %.2f %.2f %.2f %.2f %d\n",
					q.Date, q.Open, q.High, q.Low, q.Close, q.Volume)
			}
			return strings.TrimRight(sb.String(), "\n"), nil
		})
}

type metricsArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"Stooq-style ticker, e.g. nvda.us or 2330.tw."`
	Days   int    `json:"days,omitempty" jsonschema_description:"Lookback window in trading days, default 252."`
}

// PriceMetricsTool computes return, drawdown and volatility statistics over
// a ticker's recent daily closes, so the model does not have to do the
// arithmetic itself. The underlying quote download is a citable source.
func PriceMetricsTool(client *Client) tools.Function {
	return tools.NewFunctionTool("get_price_metrics",
		"Compute performance metrics (total/annualized return, Sharpe ratio, max drawdown, win rate) over a ticker's recent daily closes. The data is a numbered source; cite it as [source N].",
		func(ctx context.Context, args metricsArgs) (string, error) {
			days := args.Days
			if days <= 0 {
				days = defaultMetricsDays
			}
			quotes, err := client.DailyQuotes(ctx, args.Symbol, days)
			if err != nil {
				return "", err
			}
			metrics, err := CalcMetrics(quotes)
			if err != nil {
				return "", err
			}

			marker := ""
			if sources := pipeline.SourcesFromContext(ctx); sources != nil {
				index := sources.Add(
					client.QuoteURL(args.Symbol),
					fmt.Sprintf("Daily quotes for %s", strings.ToLower(args.Symbol)),
					"")
				marker = fmt.Sprintf("[source %d] ", index)
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "%sperformance metrics for %s over %d trading days (%s to %s):\n",
				marker, strings.ToLower(args.Symbol), metrics.TradingDays,
				quotes[0].Date, quotes[len(quotes)-1].Date)
			fmt.Fprintf(&sb, "total_return: %.2f%%\n", metrics.TotalReturn*100)
			fmt.Fprintf(&sb, "annualized_return: %.2f%%\n", metrics.AnnualizedReturn*100)
			fmt.Fprintf(&sb, "sharpe_ratio: %.2f\n", metrics.SharpeRatio)
			fmt.Fprintf(&sb, "max_drawdown: %.2f%%\n", metrics.MaxDrawdown*100)
			fmt.Fprintf(&sb, "win_rate: %.1f%%", metrics.WinRate*100)
			return sb.String(), nil
		})
}
