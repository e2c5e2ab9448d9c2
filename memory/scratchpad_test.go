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

package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/quantscout/quantscout/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsOrphanToolResult(t *testing.T) {
	pad := memory.NewScratchpad("system prompt")

	err := pad.Append(memory.ToolResultMessage("call_unknown", "payload"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "call_unknown")
	assert.Equal(t, 1, pad.Len())
}

func TestAppendRejectsToolResultWithoutID(t *testing.T) {
	pad := memory.NewScratchpad("system prompt")

	err := pad.Append(memory.Message{Role: memory.RoleTool, Content: "payload"})
	assert.Error(t, err)
}

func TestAppendLinksToolResultToEarlierCall(t *testing.T) {
	pad := memory.NewScratchpad("system prompt")

	require.NoError(t, pad.Append(memory.UserMessage("question")))
	require.NoError(t, pad.Append(memory.Message{
		Role:      memory.RoleAssistant,
		ToolCalls: []memory.ToolCall{{ID: "call_1", Name: "search_news", Arguments: `{"query":"tsmc"}`}},
	}))
	require.NoError(t, pad.Append(memory.ToolResultMessage("call_1", "3 results")))

	assert.Equal(t, 4, pad.Len())
}

func TestViewPinsSystemMessageAndKeepsOrder(t *testing.T) {
	pad := memory.NewScratchpad("pinned")
	for _, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, pad.Append(memory.UserMessage(content)))
	}

	view := pad.View(3)
	require.Len(t, view, 3)
	assert.Equal(t, memory.RoleSystem, view[0].Role)
	assert.Equal(t, "pinned", view[0].Content)
	assert.Equal(t, "three", view[1].Content)
	assert.Equal(t, "four", view[2].Content)
}

func TestViewWithoutBudgetReturnsEverything(t *testing.T) {
	pad := memory.NewScratchpad("pinned")
	require.NoError(t, pad.Append(memory.UserMessage("question")))

	assert.Len(t, pad.View(0), 2)
	assert.Len(t, pad.View(10), 2)
}

func TestSerializeRoundTripIsIdentity(t *testing.T) {
	pad := memory.NewScratchpad("system prompt")
	require.NoError(t, pad.Append(memory.UserMessage("what moved the market today?")))
	require.NoError(t, pad.Append(memory.Message{
		Role:      memory.RoleAssistant,
		Content:   "let me check",
		ToolCalls: []memory.ToolCall{{ID: "call_1", Name: "search_news", Arguments: `{"query":"market"}`}},
	}))
	require.NoError(t, pad.Append(memory.ToolResultMessage("call_1", `[source 1] Markets rallied`)))
	require.NoError(t, pad.Append(memory.AssistantMessage("Markets rallied [source 1].")))

	data, err := json.Marshal(pad)
	require.NoError(t, err)

	restored := new(memory.Scratchpad)
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, pad.Messages(), restored.Messages())

	// The restored pad must still enforce tool-call linkage.
	assert.NoError(t, restored.Append(memory.ToolResultMessage("call_1", "late result")))
	assert.Error(t, restored.Append(memory.ToolResultMessage("call_2", "orphan")))
}

func TestUnmarshalRejectsTranscriptWithoutSystemMessage(t *testing.T) {
	restored := new(memory.Scratchpad)
	err := json.Unmarshal([]byte(`[{"role":"user","content":"hi"}]`), restored)
	assert.Error(t, err)
}

func TestLastAssistantContentSkipsToolOnlyMessages(t *testing.T) {
	pad := memory.NewScratchpad("system prompt")
	require.NoError(t, pad.Append(memory.AssistantMessage("partial findings")))
	require.NoError(t, pad.Append(memory.Message{
		Role:      memory.RoleAssistant,
		ToolCalls: []memory.ToolCall{{ID: "call_9", Name: "search_news", Arguments: "{}"}},
	}))

	assert.Equal(t, "partial findings", pad.LastAssistantContent())
}
