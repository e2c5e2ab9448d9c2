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

package modelsettings

import (
	"testing"

	"github.com/openai/openai-go/v2/packages/param"
	"github.com/stretchr/testify/assert"
)

func TestResolveOverlaysPresentValues(t *testing.T) {
	base := ModelSettings{
		Temperature: param.NewOpt(0.2),
		MaxTokens:   param.NewOpt[int64](8192),
		ToolChoice:  ToolChoiceAuto,
	}
	override := ModelSettings{
		Temperature: param.NewOpt(0.7),
		ToolChoice:  ToolChoiceRequired,
	}

	resolved := base.Resolve(override)
	assert.Equal(t, param.NewOpt(0.7), resolved.Temperature)
	assert.Equal(t, param.NewOpt[int64](8192), resolved.MaxTokens)
	assert.Equal(t, ToolChoiceRequired, resolved.ToolChoice)
}

func TestResolveKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := ModelSettings{
		Temperature:  param.NewOpt(0.2),
		TopP:         param.NewOpt(0.9),
		ExtraHeaders: map[string]string{"X-Title": "quantscout"},
	}

	resolved := base.Resolve(ModelSettings{})
	assert.Equal(t, base, resolved)
}

func TestResolveClonesExtraHeaders(t *testing.T) {
	override := ModelSettings{ExtraHeaders: map[string]string{"HTTP-Referer": "https://example.com"}}

	resolved := ModelSettings{}.Resolve(override)
	override.ExtraHeaders["HTTP-Referer"] = "mutated"
	assert.Equal(t, "https://example.com", resolved.ExtraHeaders["HTTP-Referer"])
}
