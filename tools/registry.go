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

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ResultStatus marks a dispatch outcome.
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

// Result is the outcome of dispatching one tool call, serialized for model
// consumption. Error results are data the model reasons over on its next
// turn; they are never raised past the agent loop boundary.
type Result struct {
	ToolCallID string
	Status     ResultStatus
	Payload    string
}

// DuplicateToolError is returned by Register when a tool name is already
// taken.
type DuplicateToolError struct {
	Name string
}

func (err DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", err.Name)
}

// Call is one tool invocation to dispatch: the model-assigned call ID, the
// tool name, and the raw JSON arguments.
type Call struct {
	ID        string
	Name      string
	Arguments string
}

// Registry maps tool names to definitions, validates arguments and
// dispatches calls.
//
// A Registry is read-only configuration once the loops start: Dispatch is a
// pure function of its inputs plus the registered handlers, so a single
// Registry may be shared across all loops in a process without locking.
type Registry struct {
	byName map[string]Function
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Function)}
}

// Register adds a tool definition. It fails with a DuplicateToolError if the
// name already exists.
func (r *Registry) Register(f Function) error {
	if _, ok := r.byName[f.Name]; ok {
		return DuplicateToolError{Name: f.Name}
	}
	r.byName[f.Name] = f
	r.order = append(r.order, f.Name)
	return nil
}

// MustRegister is Register for static tool sets assembled at startup.
func (r *Registry) MustRegister(f Function) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Tools returns the registered definitions in registration order.
func (r *Registry) Tools() []Function {
	out := make([]Function, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Dispatch looks up, validates and executes one tool call. Every failure
// mode is converted into an error-status Result formatted so the model can
// self-correct on its next turn; Dispatch never returns a Go error and never
// panics past its boundary.
func (r *Registry) Dispatch(ctx context.Context, call Call) Result {
	tool, ok := r.byName[call.Name]
	if !ok {
		return errorResult(call.ID, fmt.Sprintf(
			"unknown tool %q; available tools: %s", call.Name, strings.Join(r.order, ", ")))
	}

	arguments := call.Arguments
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}

	if msg, ok := r.validateArguments(tool, arguments); !ok {
		return errorResult(call.ID, msg)
	}

	payload, err := r.invoke(ctx, tool, arguments)
	if err != nil {
		return errorResult(call.ID, fmt.Sprintf("tool %q failed: %v", call.Name, err))
	}
	return Result{ToolCallID: call.ID, Status: StatusOK, Payload: payload}
}

// validateArguments checks the raw JSON arguments against the tool's
// parameter schema. On failure it returns a message naming the failing field
// and the reason.
func (r *Registry) validateArguments(tool Function, arguments string) (string, bool) {
	if tool.ParamsJSONSchema == nil {
		return "", true
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(tool.ParamsJSONSchema),
		gojsonschema.NewStringLoader(arguments),
	)
	if err != nil {
		return fmt.Sprintf("invalid arguments for tool %q: %v", tool.Name, err), false
	}
	if result.Valid() {
		return "", true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid arguments for tool %q:", tool.Name)
	for _, resultError := range result.Errors() {
		fmt.Fprintf(&sb, " field %q: %s;", resultError.Field(), resultError.Description())
	}
	return strings.TrimSuffix(sb.String(), ";"), false
}

// invoke runs the handler, capturing panics and serializing the return value
// into a payload string.
func (r *Registry) invoke(ctx context.Context, tool Function, arguments string) (_ string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	value, err := tool.OnInvoke(ctx, arguments)
	if err != nil {
		return "", err
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		serialized, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("result serialization: %w", err)
		}
		return string(serialized), nil
	}
}

func errorResult(toolCallID, message string) Result {
	return Result{ToolCallID: toolCallID, Status: StatusError, Payload: message}
}
