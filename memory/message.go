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

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the model.
// Arguments carries the raw JSON exactly as the model emitted it; validation
// happens at dispatch time so that malformed arguments can be fed back to the
// model as an error result instead of failing the run.
type ToolCall struct {
	// Unique identifier of the call within a turn.
	ID string `json:"id"`

	// Name of the tool to invoke.
	Name string `json:"name"`

	// Raw JSON arguments, pre-validation.
	Arguments string `json:"arguments"`
}

// Message is one entry of a conversation transcript, in chat-completions shape.
type Message struct {
	Role Role `json:"role"`

	// Content may be empty on assistant messages that only carry tool calls.
	Content string `json:"content,omitempty"`

	// ToolCalls is present only on assistant messages, in model emission order.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID is present only on tool-result messages and links back to the
	// originating ToolCall.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// SystemMessage returns a system-role message with the given content.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message with the given content.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant-role message with the given content.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolResultMessage returns a tool-role message carrying the payload for the
// given tool call ID.
func ToolResultMessage(toolCallID, payload string) Message {
	return Message{Role: RoleTool, Content: payload, ToolCallID: toolCallID}
}
