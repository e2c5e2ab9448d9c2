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

	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/modelsettings"
	"github.com/quantscout/quantscout/tools"
	"github.com/quantscout/quantscout/usage"
)

// Model is the base interface for calling an LLM.
type Model interface {
	// GetResponse returns exactly one assistant message from the model:
	// either content with no tool calls (a final answer), or tool calls with
	// optional content (the model's stated reasoning for making them).
	GetResponse(context.Context, ModelResponseParams) (*ModelResponse, error)
}

type ModelResponseParams struct {
	// The bounded scratchpad view to send, pinned system message first.
	Messages []memory.Message

	// The tools available to the calling role.
	Tools []tools.Function

	// The model settings to use. The adapter resolves the correct wire
	// fields per model family before dispatch.
	Settings modelsettings.ModelSettings
}

type ModelResponse struct {
	// The assistant message produced by the model.
	Message memory.Message

	// Token accounting for this request, including retries.
	Usage *usage.Usage
}

// ModelProvider resolves a `provider:model` selector into a Model.
// Resolution mechanics (endpoints, credentials) live entirely behind this
// interface; no other component may special-case a provider or model name.
type ModelProvider interface {
	GetModel(selector string) (Model, error)
}
