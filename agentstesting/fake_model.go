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

// Package agentstesting provides scripted fakes for exercising the agent
// loop without a live provider.
package agentstesting

import (
	"context"
	"sync"

	"github.com/quantscout/quantscout/agents"
	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/usage"
)

// FakeModel is a scripted agents.Model. Each GetResponse call consumes the
// next TurnOutput; an exhausted script returns an empty text message.
type FakeModel struct {
	mu             sync.Mutex
	TurnOutputs    []FakeModelTurnOutput
	LastTurnArgs   FakeModelLastTurnArgs
	HardcodedUsage *usage.Usage

	// RequestCount tallies GetResponse calls across the model's lifetime.
	RequestCount int
}

// FakeModelTurnOutput is one scripted model turn: either a message or an
// error.
type FakeModelTurnOutput struct {
	Message memory.Message
	Error   error
}

// FakeModelLastTurnArgs records the parameters of the most recent
// GetResponse call, for assertions on what the loop actually sent.
type FakeModelLastTurnArgs struct {
	Messages []memory.Message
	Tools    []string
}

func NewFakeModel() *FakeModel {
	return &FakeModel{}
}

func (m *FakeModel) SetHardcodedUsage(u usage.Usage) {
	m.HardcodedUsage = &u
}

func (m *FakeModel) SetNextOutput(output FakeModelTurnOutput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnOutputs = append(m.TurnOutputs, output)
}

func (m *FakeModel) AddMultipleTurnOutputs(outputs []FakeModelTurnOutput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnOutputs = append(m.TurnOutputs, outputs...)
}

func (m *FakeModel) GetResponse(_ context.Context, params agents.ModelResponseParams) (*agents.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	toolNames := make([]string, len(params.Tools))
	for i, tool := range params.Tools {
		toolNames[i] = tool.Name
	}
	m.LastTurnArgs = FakeModelLastTurnArgs{
		Messages: params.Messages,
		Tools:    toolNames,
	}

	var output FakeModelTurnOutput
	if len(m.TurnOutputs) > 0 {
		output = m.TurnOutputs[0]
		m.TurnOutputs = m.TurnOutputs[1:]
	}
	if output.Error != nil {
		return nil, output.Error
	}

	u := m.HardcodedUsage
	if u == nil {
		u = usage.NewUsage()
	}
	return &agents.ModelResponse{Message: output.Message, Usage: u}, nil
}
