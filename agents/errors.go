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
	"errors"
	"fmt"
)

// ModelBehaviorError is returned when the model does something unexpected,
// e.g. emitting a response with neither content nor tool calls.
type ModelBehaviorError error

func NewModelBehaviorError(message string) ModelBehaviorError {
	return ModelBehaviorError(errors.New(message))
}

func ModelBehaviorErrorf(format string, a ...any) ModelBehaviorError {
	return ModelBehaviorError(fmt.Errorf(format, a...))
}

// UserError is returned when the caller misuses the package, e.g. an unknown
// provider selector or a role without a model.
type UserError error

func NewUserError(message string) UserError {
	return UserError(errors.New(message))
}

func UserErrorf(format string, a ...any) UserError {
	return UserError(fmt.Errorf(format, a...))
}

// CanceledError is returned when a run is aborted by the user before
// reaching a terminal state.
type CanceledError error

func NewCanceledError(message string) CanceledError {
	return CanceledError(errors.New(message))
}

// TransientProviderError wraps a provider failure that is safe to retry:
// rate limits, timeouts and 5xx-equivalent conditions. The model adapter
// retries these with bounded backoff before giving up.
type TransientProviderError struct {
	// HTTP status code when known, 0 otherwise.
	StatusCode int
	Err        error
}

func (err *TransientProviderError) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("transient provider error (status %d): %v", err.StatusCode, err.Err)
	}
	return fmt.Sprintf("transient provider error: %v", err.Err)
}

func (err *TransientProviderError) Unwrap() error { return err.Err }

// NonTransientProviderError wraps a provider failure that retrying cannot
// fix, such as an authentication failure or an invalid request. It fails the
// affected loop immediately.
type NonTransientProviderError struct {
	StatusCode int
	Err        error
}

func (err *NonTransientProviderError) Error() string {
	if err.StatusCode != 0 {
		return fmt.Sprintf("provider rejected request (status %d): %v", err.StatusCode, err.Err)
	}
	return fmt.Sprintf("provider rejected request: %v", err.Err)
}

func (err *NonTransientProviderError) Unwrap() error { return err.Err }
