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

package pipeline

import (
	"testing"

	"github.com/quantscout/quantscout/agents"
	"github.com/stretchr/testify/assert"
)

func TestReportMarkdownComplete(t *testing.T) {
	report := &Report{
		Query:             "What about NVDA?",
		Summary:           "Strong quarter [source 1].",
		SentimentJudgment: "bullish - earnings momentum",
		RiskAssessment:    "Valuation is stretched [source 1].",
		Sources: []Source{
			{Index: 1, URL: "https://news.example/a", Title: "Earnings beat"},
		},
		Status:           ReportStatusComplete,
		ResearcherStatus: agents.RunStatusDone,
		RiskStatus:       agents.RunStatusDone,
	}

	md := report.Markdown()
	assert.Contains(t, md, "## Findings\n")
	assert.Contains(t, md, "## Risk Review\n")
	assert.Contains(t, md, "**Sentiment:** bullish - earnings momentum")
	assert.Contains(t, md, "1. Earnings beat <https://news.example/a>")
	assert.NotContains(t, md, "Degraded run")
	assert.NotContains(t, md, "Citation Warnings")
}

func TestReportMarkdownDegradedAlwaysRenders(t *testing.T) {
	report := &Report{
		Query:            "What about NVDA?",
		Summary:          "Partial findings.\n\nNote: this answer is incomplete.",
		RiskAssessment:   "",
		Status:           ReportStatusDegraded,
		ResearcherStatus: agents.RunStatusBudgetExceeded,
		RiskStatus:       agents.RunStatusFailed,
		CitationWarnings: []string{"possible uncited assertion: \"...\""},
	}

	md := report.Markdown()
	assert.Contains(t, md, "Degraded run")
	assert.Contains(t, md, "## Findings (incomplete: iteration budget exhausted)")
	assert.Contains(t, md, "## Risk Review (failed)")
	assert.Contains(t, md, "No risk assessment was produced.")
	assert.Contains(t, md, "## Citation Warnings")
}
