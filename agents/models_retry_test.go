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
	"net/http"
	"testing"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyProviderError(t *testing.T) {
	t.Run("rate limit is transient", func(t *testing.T) {
		err := classifyProviderError(&openai.Error{StatusCode: http.StatusTooManyRequests})
		var transient *TransientProviderError
		require.ErrorAs(t, err, &transient)
		assert.Equal(t, http.StatusTooManyRequests, transient.StatusCode)
	})

	t.Run("server error is transient", func(t *testing.T) {
		err := classifyProviderError(&openai.Error{StatusCode: http.StatusBadGateway})
		var transient *TransientProviderError
		assert.ErrorAs(t, err, &transient)
	})

	t.Run("auth failure is not transient", func(t *testing.T) {
		err := classifyProviderError(&openai.Error{StatusCode: http.StatusUnauthorized})
		var nonTransient *NonTransientProviderError
		require.ErrorAs(t, err, &nonTransient)
		assert.Equal(t, http.StatusUnauthorized, nonTransient.StatusCode)
	})

	t.Run("invalid request is not transient", func(t *testing.T) {
		err := classifyProviderError(&openai.Error{StatusCode: http.StatusBadRequest})
		var nonTransient *NonTransientProviderError
		assert.ErrorAs(t, err, &nonTransient)
	})

	t.Run("deadline is transient", func(t *testing.T) {
		err := classifyProviderError(context.DeadlineExceeded)
		var transient *TransientProviderError
		assert.ErrorAs(t, err, &transient)
	})

	t.Run("network error is transient", func(t *testing.T) {
		err := classifyProviderError(errors.New("connection reset by peer"))
		var transient *TransientProviderError
		assert.ErrorAs(t, err, &transient)
	})
}

func TestRetryBackoffDuration(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, retryBackoffDuration(1))
	assert.Equal(t, time.Second, retryBackoffDuration(2))
	assert.Equal(t, 2*time.Second, retryBackoffDuration(3))
	// Capped at the maximum delay.
	assert.Equal(t, retryMaxDelay, retryBackoffDuration(10))
}

func TestWithRetriesRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	value, err := withRetries(t.Context(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &openai.Error{StatusCode: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 3, calls)
}

func TestWithRetriesStopsOnNonTransientFailure(t *testing.T) {
	calls := 0
	_, err := withRetries(t.Context(), func(context.Context) (string, error) {
		calls++
		return "", &openai.Error{StatusCode: http.StatusUnauthorized}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var nonTransient *NonTransientProviderError
	assert.ErrorAs(t, err, &nonTransient)
}

func TestWithRetriesGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	_, err := withRetries(t.Context(), func(context.Context) (string, error) {
		calls++
		return "", &openai.Error{StatusCode: http.StatusTooManyRequests}
	})
	require.Error(t, err)
	assert.Equal(t, retryMaxAttempts+1, calls)

	var transient *TransientProviderError
	assert.ErrorAs(t, err, &transient)
}

func TestWithRetriesHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	calls := 0
	_, err := withRetries(ctx, func(context.Context) (string, error) {
		calls++
		cancel()
		return "", &openai.Error{StatusCode: http.StatusTooManyRequests}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var canceled CanceledError
	assert.ErrorAs(t, err, &canceled)
}
