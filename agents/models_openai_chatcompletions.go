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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"
	"github.com/openai/openai-go/v2/shared/constant"
	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/modelsettings"
	"github.com/quantscout/quantscout/tools"
	"github.com/quantscout/quantscout/usage"
)

// Per-request timeout, independent of the agent loop's iteration budget.
// A timeout is classified as transient and retried.
const defaultRequestTimeout = 120 * time.Second

// OpenAIChatCompletionsModel calls an OpenAI-compatible chat completions
// endpoint and adapts generic requests onto it.
type OpenAIChatCompletionsModel struct {
	Provider string
	Model    openai.ChatModel
	client   openai.Client
}

func NewOpenAIChatCompletionsModel(provider string, model openai.ChatModel, client openai.Client) OpenAIChatCompletionsModel {
	return OpenAIChatCompletionsModel{
		Provider: provider,
		Model:    model,
		client:   client,
	}
}

func (m OpenAIChatCompletionsModel) GetResponse(
	ctx context.Context,
	params ModelResponseParams,
) (*ModelResponse, error) {
	body := m.prepareRequest(params.Messages, params.Settings, params.Tools)

	opts := []option.RequestOption{option.WithRequestTimeout(defaultRequestTimeout)}
	for k, v := range params.Settings.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}

	if DontLogModelData {
		Logger().Debug("calling LLM", slog.String("model", string(m.Model)))
	} else {
		Logger().Debug("calling LLM",
			slog.String("model", string(m.Model)),
			slog.String("messages", SimplePrettyJSONMarshal(body.Messages)),
			slog.String("tools", SimplePrettyJSONMarshal(body.Tools)))
	}

	response, err := withRetries(ctx, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return m.client.Chat.Completions.New(ctx, *body, opts...)
	})
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, NewModelBehaviorError("provider returned a response with no choices")
	}

	message := convertResponseMessage(response.Choices[0].Message)
	if message.Content == "" && len(message.ToolCalls) == 0 {
		return nil, NewModelBehaviorError("model returned neither content nor tool calls")
	}

	if DontLogModelData {
		Logger().Debug("LLM responded")
	} else {
		Logger().Debug("LLM responded", slog.String("message", SimplePrettyJSONMarshal(message)))
	}

	u := usage.NewUsage()
	if response.Usage.TotalTokens > 0 {
		*u = usage.Usage{
			Requests:     1,
			InputTokens:  uint64(response.Usage.PromptTokens),
			OutputTokens: uint64(response.Usage.CompletionTokens),
			TotalTokens:  uint64(response.Usage.TotalTokens),
		}
	}

	return &ModelResponse{Message: message, Usage: u}, nil
}

func (m OpenAIChatCompletionsModel) prepareRequest(
	messages []memory.Message,
	settings modelsettings.ModelSettings,
	toolDefs []tools.Function,
) *openai.ChatCompletionNewParams {
	body := &openai.ChatCompletionNewParams{
		Model:    m.Model,
		Messages: convertMessages(messages),
		TopP:     settings.TopP,
	}

	// Resolve family-specific field names and temperature handling before
	// dispatch, instead of letting the provider reject the request.
	profile := profileForModel(m.Provider, string(m.Model))
	if profile.UseCompletionTokens {
		body.MaxCompletionTokens = settings.MaxTokens
	} else {
		body.MaxTokens = settings.MaxTokens
	}
	switch {
	case profile.AllowTemperature:
		body.Temperature = settings.Temperature
	case profile.PinnedTemperature.Valid():
		body.Temperature = profile.PinnedTemperature
	}

	for _, tool := range toolDefs {
		var description param.Opt[string]
		if tool.Description != "" {
			description = param.NewOpt(tool.Description)
		}
		body.Tools = append(body.Tools, openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: description,
				Parameters:  tool.ParamsJSONSchema,
			},
		))
	}

	if settings.ToolChoice != "" && len(body.Tools) > 0 {
		body.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt(string(settings.ToolChoice)),
		}
	}
	if settings.ParallelToolCalls.Valid() && len(body.Tools) > 0 {
		body.ParallelToolCalls = settings.ParallelToolCalls
	}

	return body
}

// convertMessages maps transcript messages onto the chat completions wire
// format.
func convertMessages(messages []memory.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case memory.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case memory.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case memory.RoleTool:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: param.NewOpt(msg.Content),
					},
					ToolCallID: msg.ToolCallID,
					Role:       constant.ValueOf[constant.Tool](),
				},
			})
		case memory.RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{
				Role: constant.ValueOf[constant.Assistant](),
			}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				}
			}
			for _, tc := range msg.ToolCalls {
				arguments := tc.Arguments
				if arguments == "" {
					arguments = "{}"
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: arguments,
						},
						Type: constant.ValueOf[constant.Function](),
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		}
	}
	return result
}

// convertResponseMessage maps a provider response message back onto the
// transcript shape. Tool-call IDs missing from the response are synthesized
// so transcript linkage stays intact.
func convertResponseMessage(message openai.ChatCompletionMessage) memory.Message {
	result := memory.Message{
		Role:    memory.RoleAssistant,
		Content: message.Content,
	}
	for _, toolCall := range message.ToolCalls {
		id := toolCall.ID
		if id == "" {
			id = fmt.Sprintf("call_%s", uuid.NewString())
		}
		result.ToolCalls = append(result.ToolCalls, memory.ToolCall{
			ID:        id,
			Name:      toolCall.Function.Name,
			Arguments: toolCall.Function.Arguments,
		})
	}
	return result
}
