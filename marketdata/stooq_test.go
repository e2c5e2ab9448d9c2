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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantscout/quantscout/pipeline"
	"github.com/quantscout/quantscout/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyCSVFixture = `Date,Open,High,Low,Close,Volume
2026-08-25,181.10,184.20,180.05,183.75,41200000
2026-08-26,183.90,187.00,183.10,186.40,38800000
2026-08-27,186.00,188.50,184.90,187.20,35500000
`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient()
	client.SetEndpoint(server.URL)
	return client
}

func TestDailyQuotesParsesCSV(t *testing.T) {
	var requestedSymbol string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestedSymbol = r.URL.Query().Get("s")
		_, _ = w.Write([]byte(dailyCSVFixture))
	})

	quotes, err := client.DailyQuotes(t.Context(), "NVDA.US", 0)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	assert.Equal(t, "nvda.us", requestedSymbol)
	assert.Equal(t, "2026-08-25", quotes[0].Date)
	assert.Equal(t, 183.75, quotes[0].Close)
	assert.Equal(t, int64(41200000), quotes[0].Volume)
	assert.Equal(t, "nvda.us", quotes[0].Symbol)
}

func TestDailyQuotesLimitKeepsMostRecent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dailyCSVFixture))
	})

	quotes, err := client.DailyQuotes(t.Context(), "nvda.us", 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "2026-08-26", quotes[0].Date)
	assert.Equal(t, "2026-08-27", quotes[1].Date)
}

func TestDailyQuotesUnknownSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Stooq answers unknown symbols with a body that has no data rows.
		_, _ = w.Write([]byte("No data\n"))
	})

	_, err := client.DailyQuotes(t.Context(), "nope.zz", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote data")
}

func TestDailyQuotesEmptySymbol(t *testing.T) {
	client := NewClient()
	_, err := client.DailyQuotes(t.Context(), "  ", 5)
	require.Error(t, err)
}

func TestStockPriceToolRegistersSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dailyCSVFixture))
	})

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(StockPriceTool(client)))

	sources := pipeline.NewSourceList()
	ctx := pipeline.WithSources(t.Context(), sources)

	result := registry.Dispatch(ctx, tools.Call{
		ID:        "call_1",
		Name:      "get_stock_price",
		Arguments: `{"symbol": "nvda.us", "days": 2}`,
	})
	require.Equal(t, tools.StatusOK, result.Status)

	assert.Contains(t, result.Payload, "[source 1] daily bars for nvda.us")
	assert.Contains(t, result.Payload, "2026-08-27 186.00 188.50 184.90 187.20 35500000")
	require.Equal(t, 1, sources.Len())
	assert.Contains(t, sources.Sources()[0].Title, "nvda.us")
}

func TestStockPriceToolFailureBecomesErrorResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(StockPriceTool(client)))

	result := registry.Dispatch(t.Context(), tools.Call{
		ID:        "call_1",
		Name:      "get_stock_price",
		Arguments: `{"symbol": "nope.zz"}`,
	})
	assert.Equal(t, tools.StatusError, result.Status)
	assert.Contains(t, result.Payload, "status 404")
}
