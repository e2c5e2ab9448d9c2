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

	"github.com/invopop/jsonschema"
)

// Function is an external capability exposed to the model as a named,
// schema-validated function.
//
// The core never depends on a tool's internal protocol, only on this
// contract: a name, a parameter schema, and an invocation function.
type Function struct {
	// The name of the tool, as shown to the LLM. Unique within a Registry.
	Name string

	// A description of the tool, as shown to the LLM.
	Description string

	// The JSON schema for the tool's parameters.
	ParamsJSONSchema map[string]any

	// OnInvoke executes the tool with the given context and the arguments
	// from the LLM as a JSON string (already validated against
	// ParamsJSONSchema by the Registry).
	//
	// Return a value that can be serialized for model consumption, or an
	// error; the Registry converts errors into error-status results rather
	// than propagating them.
	OnInvoke func(ctx context.Context, arguments string) (any, error)
}

// NewFunctionTool creates a Function tool with automatic JSON schema
// generation.
//
// The schema for the argument type T is generated via reflection, honoring
// `json` and `jsonschema` struct tags (e.g.
// `jsonschema:"enum=news,enum=finance"`). The handler receives parsed
// arguments of type T and returns a JSON-serializable result.
func NewFunctionTool[T, R any](name, description string, handler func(ctx context.Context, args T) (R, error)) Function {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: false,
		AllowAdditionalProperties:  false,
	}

	var zero T
	schema := reflector.Reflect(&zero)

	schemaBytes, _ := json.Marshal(schema)
	var schemaMap map[string]any
	_ = json.Unmarshal(schemaBytes, &schemaMap)

	return Function{
		Name:             name,
		Description:      description,
		ParamsJSONSchema: schemaMap,
		OnInvoke: func(ctx context.Context, arguments string) (any, error) {
			var args T
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}
			result, err := handler(ctx, args)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}
