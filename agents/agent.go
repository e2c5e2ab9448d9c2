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
	"github.com/quantscout/quantscout/modelsettings"
	"github.com/quantscout/quantscout/tools"
)

// An Agent is a role configuration: a system prompt, a bound tool subset and
// an iteration budget. Roles are data, not types; the Runner drives any
// Agent through the same loop.
type Agent struct {
	// The name of the agent, used in logs and reports.
	Name string

	// Instructions is the "system prompt" for the agent. It is pinned as the
	// leading message of the agent's scratchpad.
	Instructions string

	// Registry holds the tools bound to this role. May be nil or empty for a
	// role that answers without tools.
	Registry *tools.Registry

	// The model implementation to use when invoking the LLM. When nil, the
	// Runner resolves ModelSelector through its ModelProvider.
	Model Model

	// ModelSelector is a `provider:model` string resolved per run; it is
	// explicit per-request configuration, not ambient state.
	ModelSelector string

	// Configures model tuning parameters (e.g. temperature, token limit).
	Settings modelsettings.ModelSettings

	// MaxIterations bounds the number of tool rounds before the run is cut
	// off with a best-effort answer. Zero means DefaultMaxIterations.
	MaxIterations int

	// ViewBudget bounds how many transcript messages are sent per model
	// request (the pinned system message always included). Zero means
	// DefaultViewBudget.
	ViewBudget int
}

func (a *Agent) tools() []tools.Function {
	if a.Registry == nil {
		return nil
	}
	return a.Registry.Tools()
}
