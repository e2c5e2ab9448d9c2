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

package agents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
)

const (
	retryMaxAttempts = 3
	retryBaseDelay   = 500 * time.Millisecond
	retryMaxDelay    = 8 * time.Second
)

// classifyProviderError wraps a provider failure as transient or
// non-transient. Rate limits, timeouts and 5xx-equivalent failures are
// transient; auth and invalid-request failures are not.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientProviderError{Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return NewCanceledError(err.Error())
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode >= 500:
			return &TransientProviderError{StatusCode: apiErr.StatusCode, Err: err}
		default:
			return &NonTransientProviderError{StatusCode: apiErr.StatusCode, Err: err}
		}
	}

	// Network-level failures (connection reset, DNS) come through as plain
	// errors; treat them as transient.
	return &TransientProviderError{Err: err}
}

func retryBackoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if wait > retryMaxDelay {
		return retryMaxDelay
	}
	return wait
}

// withRetries runs call, retrying transient failures with bounded
// exponential backoff. Non-transient failures and cancellation are returned
// immediately.
func withRetries[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= retryMaxAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBackoffDuration(attempt)
			Logger().Debug("retrying provider call",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", retryMaxAttempts),
				slog.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return zero, NewCanceledError(ctx.Err().Error())
			case <-time.After(wait):
			}
		}

		value, err := call(ctx)
		if err == nil {
			return value, nil
		}

		classified := classifyProviderError(err)
		var transient *TransientProviderError
		if !errors.As(classified, &transient) {
			return zero, classified
		}
		lastErr = classified
	}

	return zero, lastErr
}
