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
	"strings"

	"github.com/openai/openai-go/v2/packages/param"
)

// paramProfile describes how a model family expects request parameters to be
// shaped. Some families reject a temperature override, some require the
// token limit in a "completion tokens" field instead of max_tokens. The
// adapter resolves these differences here, before dispatch, instead of
// surfacing a provider rejection to the caller.
type paramProfile struct {
	// Send the token limit as max_completion_tokens instead of max_tokens.
	UseCompletionTokens bool

	// Whether the caller's temperature may be forwarded.
	AllowTemperature bool

	// Temperature value forced onto the request when the family mandates
	// one; unset means omit the field entirely.
	PinnedTemperature param.Opt[float64]
}

type familyRule struct {
	matches func(provider, model string) bool
	profile paramProfile
}

// baseModelName strips any aggregator vendor prefix, so "openai/o3-mini"
// matches the same family rules as "o3-mini".
func baseModelName(model string) string {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		return model[i+1:]
	}
	return model
}

// The adaptation table, first match wins. This table is the only place in
// the codebase allowed to special-case a provider or model name.
var familyRules = []familyRule{
	{
		// Reasoning models: o-series and the gpt-5 family take
		// max_completion_tokens and only accept the default temperature.
		matches: func(_, model string) bool {
			base := baseModelName(model)
			return strings.HasPrefix(base, "o1-") ||
				strings.HasPrefix(base, "o3-") ||
				strings.HasPrefix(base, "o4-") ||
				strings.Contains(model, "gpt-5")
		},
		profile: paramProfile{
			UseCompletionTokens: true,
			PinnedTemperature:   param.NewOpt(1.0),
		},
	},
	{
		// Kimi K2 family ignores temperature; keep max_tokens.
		matches: func(provider, model string) bool {
			return provider == "moonshot" || strings.Contains(model, "kimi")
		},
		profile: paramProfile{},
	},
}

var defaultProfile = paramProfile{AllowTemperature: true}

func profileForModel(provider, model string) paramProfile {
	for _, rule := range familyRules {
		if rule.matches(provider, model) {
			return rule.profile
		}
	}
	return defaultProfile
}
