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

package agentstesting

import (
	"context"

	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/tools"
)

// GetTextMessage builds a plain assistant answer for a scripted turn.
func GetTextMessage(content string) memory.Message {
	return memory.AssistantMessage(content)
}

// GetToolCallMessage builds an assistant message requesting the given tool
// calls.
func GetToolCallMessage(calls ...memory.ToolCall) memory.Message {
	return memory.Message{
		Role:      memory.RoleAssistant,
		ToolCalls: calls,
	}
}

// GetToolCall builds one tool-call request with empty-object arguments when
// none are given.
func GetToolCall(id, name, arguments string) memory.ToolCall {
	if arguments == "" {
		arguments = "{}"
	}
	return memory.ToolCall{ID: id, Name: name, Arguments: arguments}
}

func emptyObjectSchema(name string) map[string]any {
	return map[string]any{
		"title":                name + "_args",
		"type":                 "object",
		"required":             []string{},
		"additionalProperties": false,
		"properties":           map[string]any{},
	}
}

// GetFunctionTool returns a no-argument tool whose invocation yields a fixed
// value.
func GetFunctionTool(name string, returnValue string) tools.Function {
	return tools.Function{
		Name:             name,
		ParamsJSONSchema: emptyObjectSchema(name),
		OnInvoke: func(context.Context, string) (any, error) {
			return returnValue, nil
		},
	}
}

// GetFunctionToolErr returns a no-argument tool whose invocation always
// fails.
func GetFunctionToolErr(name string, returnErr error) tools.Function {
	return tools.Function{
		Name:             name,
		ParamsJSONSchema: emptyObjectSchema(name),
		OnInvoke: func(context.Context, string) (any, error) {
			return nil, returnErr
		},
	}
}

// GetFunctionToolFunc returns a no-argument tool backed by the given
// handler, for tests that need to observe or delay invocations.
func GetFunctionToolFunc(name string, fn func(ctx context.Context, arguments string) (any, error)) tools.Function {
	return tools.Function{
		Name:             name,
		ParamsJSONSchema: emptyObjectSchema(name),
		OnInvoke:         fn,
	}
}
