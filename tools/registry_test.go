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

package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quantscout/quantscout/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type echoResult struct {
	Echo string `json:"echo"`
}

func echoTool() tools.Function {
	return tools.NewFunctionTool("echo", "Echo the query back",
		func(_ context.Context, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Query}, nil
		})
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(echoTool()))

	err := registry.Register(echoTool())
	var dup tools.DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Name)
}

func TestToolsKeepRegistrationOrder(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Function{Name: "b"})
	registry.MustRegister(tools.Function{Name: "a"})

	defs := registry.Tools()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
}

func TestDispatchUnknownToolReturnsErrorResult(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(echoTool())

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "nope", Arguments: "{}"})
	assert.Equal(t, tools.StatusError, result.Status)
	assert.Equal(t, "call_1", result.ToolCallID)
	assert.Contains(t, result.Payload, `unknown tool "nope"`)
	assert.Contains(t, result.Payload, "echo")
}

func TestDispatchValidArguments(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(echoTool())

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "echo", Arguments: `{"query":"tsmc"}`})
	require.Equal(t, tools.StatusOK, result.Status)
	assert.JSONEq(t, `{"echo":"tsmc"}`, result.Payload)
}

func TestDispatchValidationFailureNamesField(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(echoTool())

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "echo", Arguments: `{"max_results":3}`})
	require.Equal(t, tools.StatusError, result.Status)
	assert.Contains(t, result.Payload, "query")
}

func TestDispatchRejectsWrongArgumentType(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(echoTool())

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "echo", Arguments: `{"query":"x","max_results":"three"}`})
	require.Equal(t, tools.StatusError, result.Status)
	assert.Contains(t, result.Payload, "max_results")
}

func TestDispatchCapturesHandlerError(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.NewFunctionTool("boom", "Always fails",
		func(context.Context, echoArgs) (echoResult, error) {
			return echoResult{}, errors.New("upstream unavailable")
		}))

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "boom", Arguments: `{"query":"x"}`})
	require.Equal(t, tools.StatusError, result.Status)
	assert.Contains(t, result.Payload, "upstream unavailable")
}

func TestDispatchCapturesHandlerPanic(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Function{
		Name: "panics",
		OnInvoke: func(context.Context, string) (any, error) {
			panic("handler bug")
		},
	})

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "panics", Arguments: "{}"})
	require.Equal(t, tools.StatusError, result.Status)
	assert.Contains(t, result.Payload, "handler bug")
}

func TestDispatchTreatsEmptyArgumentsAsEmptyObject(t *testing.T) {
	registry := tools.NewRegistry()
	registry.MustRegister(tools.Function{
		Name: "no_args",
		OnInvoke: func(context.Context, string) (any, error) {
			return "done", nil
		},
	})

	result := registry.Dispatch(t.Context(), tools.Call{ID: "call_1", Name: "no_args"})
	require.Equal(t, tools.StatusOK, result.Status)
	assert.Equal(t, "done", result.Payload)
}
