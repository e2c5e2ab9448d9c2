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

// Package marketdata fetches daily stock quotes from the Stooq public CSV
// endpoint. No API key required. Like websearch, it is an opaque
// collaborator exposing tool definitions to the core.
package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://stooq.com/q/d/l/"
	requestTimeout  = 30 * time.Second
)

// Quote is one daily OHLCV bar.
type Quote struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Client downloads daily history as CSV.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// SetEndpoint overrides the endpoint, for tests.
func (c *Client) SetEndpoint(endpoint string) { c.endpoint = endpoint }

// QuoteURL returns the CSV download URL for a symbol, also used as the
// citation source URL.
func (c *Client) QuoteURL(symbol string) string {
	return c.endpoint + "?" + url.Values{
		"s": {strings.ToLower(symbol)},
		"i": {"d"},
	}.Encode()
}

// DailyQuotes fetches the daily history for a symbol and returns the most
// recent limit bars, oldest first. Symbols follow Stooq conventions, e.g.
// "nvda.us" or "2330.tw".
func (c *Client) DailyQuotes(ctx context.Context, symbol string, limit int) ([]Quote, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QuoteURL(symbol), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request for %q failed with status %d", symbol, resp.StatusCode)
	}

	quotes, err := parseDailyCSV(symbol, resp.Body)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quote data for symbol %q", symbol)
	}
	if limit > 0 && len(quotes) > limit {
		quotes = quotes[len(quotes)-limit:]
	}
	return quotes, nil
}

// parseDailyCSV reads the Stooq layout: Date,Open,High,Low,Close,Volume with
// a header row. Rows with unparsable numbers are skipped.
func parseDailyCSV(symbol string, r io.Reader) ([]Quote, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("quote csv: %w", err)
	}

	var quotes []Quote
	for i, record := range records {
		if i == 0 || len(record) < 6 {
			continue
		}
		open, err1 := strconv.ParseFloat(record[1], 64)
		high, err2 := strconv.ParseFloat(record[2], 64)
		low, err3 := strconv.ParseFloat(record[3], 64)
		closePrice, err4 := strconv.ParseFloat(record[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		volume, _ := strconv.ParseInt(record[5], 10, 64)
		quotes = append(quotes, Quote{
			Symbol: symbol,
			Date:   record[0],
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return quotes, nil
}
