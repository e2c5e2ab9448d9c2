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

package memory

import (
	"encoding/json"
	"fmt"
	"slices"
)

// A Scratchpad is the ordered, append-only conversation memory for one role's
// run. The leading system message is pinned: it is always the first message
// and always included in every view, regardless of the view budget.
//
// A Scratchpad is exclusively owned by one agent loop; it is not safe for
// concurrent use.
type Scratchpad struct {
	messages []Message

	// toolCallIDs holds every tool-call ID emitted by an assistant message so
	// far, so that tool-result linkage can be checked on append.
	toolCallIDs map[string]struct{}
}

// NewScratchpad returns a Scratchpad whose pinned leading message is a system
// message with the given instructions.
func NewScratchpad(systemPrompt string) *Scratchpad {
	return &Scratchpad{
		messages:    []Message{SystemMessage(systemPrompt)},
		toolCallIDs: make(map[string]struct{}),
	}
}

// Append adds a message to the end of the transcript.
//
// A tool-result message whose ToolCallID does not match a ToolCall emitted by
// an earlier assistant message is rejected: an orphaned tool result is a
// programming error in the loop, not a runtime condition to tolerate.
func (s *Scratchpad) Append(msg Message) error {
	switch msg.Role {
	case RoleTool:
		if msg.ToolCallID == "" {
			return fmt.Errorf("tool-result message is missing a tool_call_id")
		}
		if _, ok := s.toolCallIDs[msg.ToolCallID]; !ok {
			return fmt.Errorf("tool-result message references unknown tool call %q", msg.ToolCallID)
		}
	case RoleAssistant:
		for _, tc := range msg.ToolCalls {
			s.toolCallIDs[tc.ID] = struct{}{}
		}
	}
	s.messages = append(s.messages, msg)
	return nil
}

// Len returns the number of messages in the transcript, including the pinned
// system message.
func (s *Scratchpad) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the full transcript in order.
func (s *Scratchpad) Messages() []Message {
	return slices.Clone(s.messages)
}

// View returns the pinned system message followed by the most recent messages,
// at most budget messages in total. A budget <= 0 returns the full transcript.
// The view never reorders messages.
func (s *Scratchpad) View(budget int) []Message {
	if budget <= 0 || len(s.messages) <= budget {
		return slices.Clone(s.messages)
	}
	view := make([]Message, 0, budget)
	view = append(view, s.messages[0])
	view = append(view, s.messages[len(s.messages)-(budget-1):]...)
	return view
}

// LastAssistantContent returns the content of the most recent assistant
// message that carries text, or "" if there is none. It is used to synthesize
// a best-effort answer when a run exhausts its iteration budget.
func (s *Scratchpad) LastAssistantContent() string {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; m.Role == RoleAssistant && m.Content != "" {
			return m.Content
		}
	}
	return ""
}

// MarshalJSON serializes the transcript. Serialization round-trips exactly:
// message order and all fields are preserved.
func (s *Scratchpad) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.messages)
}

// UnmarshalJSON restores a transcript previously produced by MarshalJSON,
// rebuilding the tool-call linkage index.
func (s *Scratchpad) UnmarshalJSON(data []byte) error {
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return err
	}
	if len(messages) == 0 || messages[0].Role != RoleSystem {
		return fmt.Errorf("serialized scratchpad must start with a system message")
	}
	s.messages = messages
	s.toolCallIDs = make(map[string]struct{})
	for _, m := range messages {
		for _, tc := range m.ToolCalls {
			s.toolCallIDs[tc.ID] = struct{}{}
		}
	}
	return nil
}
