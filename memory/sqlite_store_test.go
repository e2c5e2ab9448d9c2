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

package memory_test

import (
	"path/filepath"
	"testing"

	"github.com/quantscout/quantscout/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *memory.SQLiteTranscriptStore {
	t.Helper()
	store, err := memory.NewSQLiteTranscriptStore(t.Context(), memory.SQLiteTranscriptStoreParams{
		DBDataSourceName: filepath.Join(t.TempDir(), "transcripts.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func samplePad(t *testing.T) *memory.Scratchpad {
	t.Helper()
	pad := memory.NewScratchpad("system prompt")
	require.NoError(t, pad.Append(memory.UserMessage("how did TSMC do in January?")))
	require.NoError(t, pad.Append(memory.Message{
		Role:      memory.RoleAssistant,
		ToolCalls: []memory.ToolCall{{ID: "call_1", Name: "search_finance", Arguments: `{"query":"TSMC January"}`}},
	}))
	require.NoError(t, pad.Append(memory.ToolResultMessage("call_1", "[source 1] TSMC revenue grew")))
	require.NoError(t, pad.Append(memory.AssistantMessage("Revenue grew [source 1].")))
	return pad
}

func TestTranscriptStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	pad := samplePad(t)

	require.NoError(t, store.SaveTranscript(t.Context(), "run-1", pad))

	restored, err := store.LoadTranscript(t.Context(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, pad.Messages(), restored.Messages())
}

func TestTranscriptStoreSaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveTranscript(t.Context(), "run-1", samplePad(t)))

	shorter := memory.NewScratchpad("system prompt")
	require.NoError(t, shorter.Append(memory.UserMessage("second attempt")))
	require.NoError(t, store.SaveTranscript(t.Context(), "run-1", shorter))

	restored, err := store.LoadTranscript(t.Context(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, shorter.Messages(), restored.Messages())
}

func TestTranscriptStoreUnknownSession(t *testing.T) {
	store := newTestStore(t)

	restored, err := store.LoadTranscript(t.Context(), "missing")
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestTranscriptStoreClearSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveTranscript(t.Context(), "run-1", samplePad(t)))
	require.NoError(t, store.ClearSession(t.Context(), "run-1"))

	restored, err := store.LoadTranscript(t.Context(), "run-1")
	require.NoError(t, err)
	assert.Nil(t, restored)
}
