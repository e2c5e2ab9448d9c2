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
	"fmt"
	"math"
)

const tradingDaysPerYear = 252

// Metrics summarizes the performance of a daily close series.
type Metrics struct {
	// TotalReturn over the whole series, e.g. 0.089 for +8.9%.
	TotalReturn float64 `json:"total_return"`

	// AnnualizedReturn compounds the total return to a 252-trading-day year.
	AnnualizedReturn float64 `json:"annualized_return"`

	// SharpeRatio of daily returns, annualized, zero risk-free rate.
	SharpeRatio float64 `json:"sharpe_ratio"`

	// MaxDrawdown is the worst peak-to-trough decline, e.g. -0.10 for -10%.
	MaxDrawdown float64 `json:"max_drawdown"`

	// WinRate is the fraction of up days.
	WinRate float64 `json:"win_rate"`

	// TradingDays is the number of daily returns the metrics cover.
	TradingDays int `json:"trading_days"`
}

// CalcMetrics computes performance metrics from daily bars, oldest first.
// At least three bars (two daily returns) are required.
func CalcMetrics(quotes []Quote) (Metrics, error) {
	returns := make([]float64, 0, len(quotes))
	for i := 1; i < len(quotes); i++ {
		prev := quotes[i-1].Close
		if prev <= 0 {
			return Metrics{}, fmt.Errorf("non-positive close %v on %s", prev, quotes[i-1].Date)
		}
		returns = append(returns, quotes[i].Close/prev-1)
	}
	if len(returns) < 2 {
		return Metrics{}, fmt.Errorf("need at least 3 bars to compute metrics, got %d", len(quotes))
	}

	n := float64(len(returns))
	totalReturn := quotes[len(quotes)-1].Close/quotes[0].Close - 1
	annualized := math.Pow(1+totalReturn, tradingDaysPerYear/n) - 1

	var mean float64
	var wins int
	for _, r := range returns {
		mean += r
		if r > 0 {
			wins++
		}
	}
	mean /= n

	// Sample standard deviation, matching the usual daily-return convention.
	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / (n - 1))

	sharpe := 0.0
	if std > 0 {
		sharpe = (mean * tradingDaysPerYear) / (std * math.Sqrt(tradingDaysPerYear))
	}

	maxDrawdown := 0.0
	peak := quotes[0].Close
	for _, q := range quotes[1:] {
		if q.Close > peak {
			peak = q.Close
		}
		if dd := (q.Close - peak) / peak; dd < maxDrawdown {
			maxDrawdown = dd
		}
	}

	return Metrics{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualized,
		SharpeRatio:      sharpe,
		MaxDrawdown:      maxDrawdown,
		WinRate:          float64(wins) / n,
		TradingDays:      len(returns),
	}, nil
}
