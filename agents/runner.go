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
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/tools"
	"github.com/quantscout/quantscout/usage"
)

const (
	DefaultMaxIterations   = 10
	DefaultViewBudget      = 50
	DefaultToolConcurrency = 4
)

// RunStatus is the terminal state of an agent run.
type RunStatus string

const (
	// RunStatusDone means the model produced a final answer.
	RunStatusDone RunStatus = "done"

	// RunStatusFailed means the run stopped on an unrecoverable error
	// (provider failure, cancellation, malformed model output).
	RunStatusFailed RunStatus = "failed"

	// RunStatusBudgetExceeded means the iteration budget ran out before the
	// model finished; FinalOutput holds a best-effort answer explicitly
	// marked as incomplete.
	RunStatusBudgetExceeded RunStatus = "budget_exceeded"
)

// RunResult is the outcome of driving an Agent to a terminal state. A failed
// run is reported here rather than as a returned error, so callers can
// inspect the partial transcript and degrade instead of aborting.
type RunResult struct {
	// FinalOutput is the agent's answer. Empty when Status is
	// RunStatusFailed.
	FinalOutput string

	Status RunStatus

	// Err is set when Status is RunStatusFailed.
	Err error

	// Iterations counts completed tool rounds.
	Iterations int

	Usage *usage.Usage

	// Scratchpad is the full transcript of the run, including messages
	// appended before the terminal state was reached.
	Scratchpad *memory.Scratchpad
}

// Runner drives agents through the loop: ask the model, execute requested
// tools, feed results back, repeat until a final answer or a terminal
// condition. One Runner can serve many agents and runs.
type Runner struct {
	// Provider resolves each agent's ModelSelector. Required unless every
	// agent carries an explicit Model.
	Provider ModelProvider

	// ToolConcurrency bounds how many tool calls from a single assistant
	// message run at once. Zero means DefaultToolConcurrency.
	ToolConcurrency int
}

// Run starts a fresh transcript from the agent's instructions and the user
// input, then drives the agent to a terminal state.
func (r Runner) Run(ctx context.Context, agent *Agent, input string) (*RunResult, error) {
	pad := memory.NewScratchpad(agent.Instructions)
	if err := pad.Append(memory.UserMessage(input)); err != nil {
		return nil, err
	}
	return r.RunScratchpad(ctx, agent, pad)
}

// RunScratchpad drives the agent on an existing transcript. The returned
// error is reserved for configuration mistakes (nil agent, unresolvable
// model selector); runtime failures terminate with RunStatusFailed instead.
func (r Runner) RunScratchpad(ctx context.Context, agent *Agent, pad *memory.Scratchpad) (*RunResult, error) {
	if agent == nil {
		return nil, NewUserError("agent must not be nil")
	}

	model := agent.Model
	if model == nil {
		if r.Provider == nil {
			return nil, NewUserError("runner has no model provider and agent has no explicit model")
		}
		var err error
		model, err = r.Provider.GetModel(agent.ModelSelector)
		if err != nil {
			return nil, err
		}
	}

	maxIterations := agent.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	viewBudget := agent.ViewBudget
	if viewBudget <= 0 {
		viewBudget = DefaultViewBudget
	}

	totalUsage := usage.NewUsage()
	// Callers may carry an aggregate Usage in the context to sum across runs.
	ctxUsage, _ := usage.FromContext(ctx)
	iterations := 0

	fail := func(err error) (*RunResult, error) {
		Logger().Error("agent run failed",
			slog.String("agent", agent.Name),
			slog.Int("iterations", iterations),
			slog.String("error", err.Error()))
		return &RunResult{
			Status:     RunStatusFailed,
			Err:        err,
			Iterations: iterations,
			Usage:      totalUsage,
			Scratchpad: pad,
		}, nil
	}

	for {
		// Budget check happens before each planning step, so the run makes
		// at most maxIterations+1 model calls.
		if iterations >= maxIterations {
			Logger().Warn("iteration budget exhausted",
				slog.String("agent", agent.Name),
				slog.Int("max_iterations", maxIterations))
			return &RunResult{
				FinalOutput: incompleteAnswer(pad),
				Status:      RunStatusBudgetExceeded,
				Iterations:  iterations,
				Usage:       totalUsage,
				Scratchpad:  pad,
			}, nil
		}
		if err := ctx.Err(); err != nil {
			return fail(NewCanceledError(err.Error()))
		}

		Logger().Debug("planning step",
			slog.String("agent", agent.Name),
			slog.Int("iteration", iterations))

		response, err := model.GetResponse(ctx, ModelResponseParams{
			Messages: pad.View(viewBudget),
			Tools:    agent.tools(),
			Settings: agent.Settings,
		})
		if err != nil {
			return fail(err)
		}
		totalUsage.Add(response.Usage)
		if ctxUsage != nil {
			ctxUsage.Add(response.Usage)
		}

		if err := pad.Append(response.Message); err != nil {
			return fail(err)
		}

		if len(response.Message.ToolCalls) == 0 {
			return &RunResult{
				FinalOutput: response.Message.Content,
				Status:      RunStatusDone,
				Iterations:  iterations,
				Usage:       totalUsage,
				Scratchpad:  pad,
			}, nil
		}

		results, err := r.executeToolCalls(ctx, agent, response.Message.ToolCalls)
		if err != nil {
			return fail(err)
		}
		for _, result := range results {
			if err := pad.Append(memory.ToolResultMessage(result.ToolCallID, result.Payload)); err != nil {
				return fail(err)
			}
		}
		iterations++
	}
}

// executeToolCalls dispatches every requested call with bounded concurrency
// and returns the results in the order the model emitted the calls,
// regardless of completion order.
func (r Runner) executeToolCalls(ctx context.Context, agent *Agent, calls []memory.ToolCall) ([]tools.Result, error) {
	if agent.Registry == nil {
		return nil, NewModelBehaviorError("model requested tool calls but the agent has no tools")
	}

	concurrency := r.ToolConcurrency
	if concurrency <= 0 {
		concurrency = DefaultToolConcurrency
	}

	results := make([]tools.Result, len(calls))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i, call := range calls {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return NewCanceledError(err.Error())
			}
			Logger().Debug("executing tool",
				slog.String("agent", agent.Name),
				slog.String("tool", call.Name),
				slog.String("tool_call_id", call.ID))
			results[i] = agent.Registry.Dispatch(groupCtx, tools.Call{
				ID:        call.ID,
				Name:      call.Name,
				Arguments: call.Arguments,
			})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

const incompleteNote = "Note: this answer is incomplete. The iteration budget was exhausted before research finished."

// incompleteAnswer builds the best-effort final output for a run cut off by
// the iteration budget, drawn from the last assistant text on the pad.
func incompleteAnswer(pad *memory.Scratchpad) string {
	if last := pad.LastAssistantContent(); last != "" {
		return last + "\n\n" + incompleteNote
	}
	return incompleteNote
}
