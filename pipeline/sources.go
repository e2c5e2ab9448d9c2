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

// Package pipeline sequences the research and risk-review roles over a
// single query and assembles the final report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Source is one piece of retrieved external content. Index is 1-based and
// stable for the whole pipeline run; citation markers in model output refer
// to it.
type Source struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SourceList accumulates sources across both role loops of a run. Tools that
// retrieve external content register their sources here before returning, so
// indices are available to the model on its next turn. Safe for concurrent
// use: tool calls within one turn may run in parallel.
type SourceList struct {
	mu      sync.Mutex
	sources []Source
	byURL   map[string]int
}

func NewSourceList() *SourceList {
	return &SourceList{byURL: make(map[string]int)}
}

// Add registers a source and returns its 1-based index. A URL seen before
// keeps its original index; the first title and snippet win.
func (l *SourceList) Add(url, title, snippet string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index, ok := l.byURL[url]; ok {
		return index
	}
	index := len(l.sources) + 1
	l.sources = append(l.sources, Source{
		Index:   index,
		URL:     url,
		Title:   title,
		Snippet: snippet,
	})
	l.byURL[url] = index
	return index
}

func (l *SourceList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sources)
}

// Sources returns a snapshot in index order.
func (l *SourceList) Sources() []Source {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Source, len(l.sources))
	copy(out, l.sources)
	return out
}

// Digest renders the list as a numbered block for seeding a role's context.
func (l *SourceList) Digest() string {
	sources := l.Sources()
	if len(sources) == 0 {
		return "(no sources collected)"
	}
	var sb strings.Builder
	for _, src := range sources {
		fmt.Fprintf(&sb, "[source %d] %s", src.Index, src.Title)
		if src.URL != "" {
			fmt.Fprintf(&sb, " <%s>", src.URL)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

type sourcesContextKey struct{}

// WithSources attaches the run's source list to the context the coordinator
// passes into tool execution.
func WithSources(ctx context.Context, list *SourceList) context.Context {
	return context.WithValue(ctx, sourcesContextKey{}, list)
}

// SourcesFromContext returns the run's source list, or nil when the tool is
// invoked outside a pipeline run.
func SourcesFromContext(ctx context.Context) *SourceList {
	list, _ := ctx.Value(sourcesContextKey{}).(*SourceList)
	return list
}
