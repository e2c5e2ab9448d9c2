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
	"os"
	"sort"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ProviderSpec describes one OpenAI-compatible provider: where to reach it
// and which environment variable holds its credential.
type ProviderSpec struct {
	Name         string
	APIKeyEnv    string
	BaseURL      string // empty means the SDK default endpoint
	DefaultModel string

	// ExtraHeaders returns provider-specific default headers.
	ExtraHeaders func() map[string]string
}

// Providers supported out of the box. All speak the chat completions shape.
var defaultProviderSpecs = map[string]ProviderSpec{
	"openai": {
		Name:         "openai",
		APIKeyEnv:    "OPENAI_API_KEY",
		DefaultModel: "gpt-5-mini",
	},
	"openrouter": {
		Name:         "openrouter",
		APIKeyEnv:    "OPENROUTER_API_KEY",
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "openai/gpt-5-mini",
		ExtraHeaders: func() map[string]string {
			// Optional but recommended by OpenRouter.
			headers := make(map[string]string)
			if siteURL := os.Getenv("OPENROUTER_SITE_URL"); siteURL != "" {
				headers["HTTP-Referer"] = siteURL
			}
			if appName := os.Getenv("OPENROUTER_APP_NAME"); appName != "" {
				headers["X-Title"] = appName
			}
			return headers
		},
	},
	"moonshot": {
		Name:         "moonshot",
		APIKeyEnv:    "MOONSHOT_API_KEY",
		BaseURL:      "https://api.moonshot.cn/v1",
		DefaultModel: "kimi-k2.5",
	},
}

// MultiProvider resolves `provider:model` selectors into Models. A selector
// without a provider prefix defaults to openai. Clients are constructed
// lazily per provider and reused.
type MultiProvider struct {
	specs   map[string]ProviderSpec
	clients map[string]openai.Client
}

func NewMultiProvider() *MultiProvider {
	return &MultiProvider{
		specs:   defaultProviderSpecs,
		clients: make(map[string]openai.Client),
	}
}

// SplitSelector cuts a `provider:model` selector, defaulting the provider to
// openai and the model to the provider default.
func (mp *MultiProvider) SplitSelector(selector string) (provider, model string) {
	provider = "openai"
	model = strings.TrimSpace(selector)
	if before, after, ok := strings.Cut(model, ":"); ok {
		provider = strings.ToLower(strings.TrimSpace(before))
		model = strings.TrimSpace(after)
	}
	if model == "" {
		if spec, ok := mp.specs[provider]; ok {
			model = spec.DefaultModel
		}
	}
	return provider, model
}

// Selectors lists the supported `provider:model` defaults, for the CLI
// /models command.
func (mp *MultiProvider) Selectors() []string {
	out := make([]string, 0, len(mp.specs))
	for name, spec := range mp.specs {
		out = append(out, name+":"+spec.DefaultModel)
	}
	sort.Strings(out)
	return out
}

// GetModel resolves a selector into a Model. Unknown providers and missing
// credentials are UserErrors: retrying cannot fix them.
func (mp *MultiProvider) GetModel(selector string) (Model, error) {
	provider, model := mp.SplitSelector(selector)

	spec, ok := mp.specs[provider]
	if !ok {
		known := make([]string, 0, len(mp.specs))
		for name := range mp.specs {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, UserErrorf("unknown provider %q; supported: %s", provider, strings.Join(known, ", "))
	}

	client, err := mp.clientFor(spec)
	if err != nil {
		return nil, err
	}
	return NewOpenAIChatCompletionsModel(provider, model, client), nil
}

func (mp *MultiProvider) clientFor(spec ProviderSpec) (openai.Client, error) {
	if client, ok := mp.clients[spec.Name]; ok {
		return client, nil
	}

	apiKey := os.Getenv(spec.APIKeyEnv)
	if apiKey == "" {
		return openai.Client{}, UserErrorf("%s not set in environment", spec.APIKeyEnv)
	}

	// Disable the SDK's own retries; the adapter owns the retry policy.
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if spec.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(spec.BaseURL))
	}
	if spec.ExtraHeaders != nil {
		for k, v := range spec.ExtraHeaders() {
			opts = append(opts, option.WithHeader(k, v))
		}
	}

	client := openai.NewClient(opts...)
	mp.clients[spec.Name] = client
	return client, nil
}
