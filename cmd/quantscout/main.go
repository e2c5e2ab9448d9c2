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

// Command quantscout is the interactive research console: type a market
// question, get a cited two-stage report (research + risk review).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/quantscout/quantscout/agents"
	"github.com/quantscout/quantscout/marketdata"
	"github.com/quantscout/quantscout/memory"
	"github.com/quantscout/quantscout/pipeline"
	"github.com/quantscout/quantscout/tools"
	"github.com/quantscout/quantscout/websearch"
)

const defaultSelector = "openai:gpt-5-mini"

var (
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const banner = `  ___                    _   ____                  _
 / _ \ _   _  __ _ _ __ | |_/ ___|  ___ ___  _   _| |_
| | | | | | |/ _` + "`" + ` | '_ \| __\___ \ / __/ _ \| | | | __|
| |_| | |_| | (_| | | | | |_ ___) | (_| (_) | |_| | |_
 \__\_\\__,_|\__,_|_| |_|\__|____/ \___\___/ \__,_|\__|`

type console struct {
	provider    *agents.MultiProvider
	coordinator *pipeline.Coordinator
	selector    string
	renderer    *glamour.TermRenderer
}

func main() {
	if os.Getenv("QUANTSCOUT_VERBOSE") != "" {
		agents.EnableVerboseStdoutLogging()
	}

	c, cleanup, err := newConsole()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("startup failed: "+err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println(bannerStyle.Render(banner))
	fmt.Println(dimStyle.Render("Ask a market research question, or /help for commands, /quit to exit."))
	fmt.Println(dimStyle.Render("Active model: " + c.selector))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			fmt.Println(dimStyle.Render("\nBye!"))
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			fmt.Println(dimStyle.Render("Bye!"))
			return
		}
		if c.handleCommand(line) {
			continue
		}
		c.runQuery(line)
	}
}

func newConsole() (*console, func(), error) {
	provider := agents.NewMultiProvider()

	registry := tools.NewRegistry()
	quotes := marketdata.NewClient()
	registry.MustRegister(marketdata.StockPriceTool(quotes))
	registry.MustRegister(marketdata.PriceMetricsTool(quotes))
	if search, err := websearch.NewClient(); err != nil {
		fmt.Fprintln(os.Stderr, dimStyle.Render("search tools disabled: "+err.Error()))
	} else {
		registry.MustRegister(websearch.NewsSearchTool(search))
		registry.MustRegister(websearch.FinanceSearchTool(search))
	}

	coordinator := &pipeline.Coordinator{
		Runner:   agents.Runner{Provider: provider},
		Registry: registry,
	}

	cleanup := func() {}
	if dsn := os.Getenv("QUANTSCOUT_HISTORY_DB"); dsn != "" {
		store, err := memory.NewSQLiteTranscriptStore(context.Background(),
			memory.SQLiteTranscriptStoreParams{DBDataSourceName: dsn})
		if err != nil {
			return nil, nil, fmt.Errorf("open history db: %w", err)
		}
		coordinator.Transcripts = store
		cleanup = func() { _ = store.Close() }
	}

	selector := os.Getenv("QUANTSCOUT_MODEL")
	if selector == "" {
		selector = defaultSelector
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown renderer: %w", err)
	}

	return &console{
		provider:    provider,
		coordinator: coordinator,
		selector:    selector,
		renderer:    renderer,
	}, cleanup, nil
}

// handleCommand reports whether the line was a slash command.
func (c *console) handleCommand(line string) bool {
	if !strings.HasPrefix(line, "/") {
		return false
	}

	switch {
	case line == "/help":
		fmt.Println(dimStyle.Render(strings.Join([]string{
			"/models          list provider:model defaults",
			"/model <id>      switch the active model (e.g. moonshot:kimi-k2.5)",
			"/help            show this help",
			"/quit            exit",
			"",
			"Anything else is run as a research question, e.g.:",
			`  "How did NVDA react to its latest earnings?"`,
		}, "\n")))
	case line == "/models":
		for _, selector := range c.provider.Selectors() {
			marker := "  "
			if selector == c.selector {
				marker = okStyle.Render("* ")
			}
			fmt.Println(marker + selector)
		}
		fmt.Println(dimStyle.Render("Any provider:model pair works; these are the defaults."))
	case strings.HasPrefix(line, "/model"):
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			fmt.Println(dimStyle.Render("Usage: /model <provider:model>  (see /models)"))
			break
		}
		next := strings.TrimSpace(parts[1])
		if _, err := c.provider.GetModel(next); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		c.selector = next
		fmt.Println(okStyle.Render("Model switched to " + c.selector))
	default:
		fmt.Println(errorStyle.Render("unknown command " + line + "; see /help"))
	}
	return true
}

// runQuery drives one pipeline run. Ctrl-C aborts the in-flight run without
// exiting the console.
func (c *console) runQuery(query string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(dimStyle.Render("Researching... (Ctrl-C to abort)"))
	report, err := c.coordinator.Run(ctx, pipeline.RunParams{
		Query:         query,
		ModelSelector: c.selector,
	})
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}

	rendered, err := c.renderer.Render(report.Markdown())
	if err != nil {
		fmt.Println(report.Markdown())
		return
	}
	fmt.Println(rendered)

	if report.Usage != nil && report.Usage.Requests > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf(
			"%d requests, %d input / %d output tokens",
			report.Usage.Requests, report.Usage.InputTokens, report.Usage.OutputTokens)))
	}
}
