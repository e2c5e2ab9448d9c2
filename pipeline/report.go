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
	"fmt"
	"strings"

	"github.com/quantscout/quantscout/agents"
	"github.com/quantscout/quantscout/usage"
)

// ReportStatus marks whether both role loops finished cleanly.
type ReportStatus string

const (
	ReportStatusComplete ReportStatus = "complete"
	ReportStatusDegraded ReportStatus = "degraded"
)

// Report is the assembled outcome of one pipeline run. It always renders,
// even after a degraded run; per-section statuses distinguish complete,
// budget-exceeded and failed stages.
type Report struct {
	Query string `json:"query"`

	// Summary is the Researcher's findings, including its preliminary
	// sentiment read.
	Summary string `json:"summary"`

	// SentimentJudgment is the sentiment line extracted from the summary,
	// empty when the Researcher did not state one.
	SentimentJudgment string `json:"sentiment_judgment,omitempty"`

	// RiskAssessment is the Risk Manager's verdict.
	RiskAssessment string `json:"risk_assessment"`

	Sources          []Source `json:"sources"`
	CitationWarnings []string `json:"citation_warnings,omitempty"`

	Status           ReportStatus     `json:"status"`
	ResearcherStatus agents.RunStatus `json:"researcher_status"`
	RiskStatus       agents.RunStatus `json:"risk_status"`

	Usage *usage.Usage `json:"usage,omitempty"`
}

func sectionHeading(title string, status agents.RunStatus) string {
	switch status {
	case agents.RunStatusDone:
		return fmt.Sprintf("## %s", title)
	case agents.RunStatusBudgetExceeded:
		return fmt.Sprintf("## %s (incomplete: iteration budget exhausted)", title)
	default:
		return fmt.Sprintf("## %s (failed)", title)
	}
}

// Markdown renders the report as a markdown document for the CLI to style.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Research Report\n\n")
	if r.Status == ReportStatusDegraded {
		sb.WriteString("> Degraded run: at least one stage did not finish cleanly.\n\n")
	}

	sb.WriteString(sectionHeading("Findings", r.ResearcherStatus) + "\n\n")
	if r.Summary != "" {
		sb.WriteString(r.Summary + "\n\n")
	} else {
		sb.WriteString("No findings were produced.\n\n")
	}

	if r.SentimentJudgment != "" {
		fmt.Fprintf(&sb, "**Sentiment:** %s\n\n", r.SentimentJudgment)
	}

	sb.WriteString(sectionHeading("Risk Review", r.RiskStatus) + "\n\n")
	if r.RiskAssessment != "" {
		sb.WriteString(r.RiskAssessment + "\n\n")
	} else {
		sb.WriteString("No risk assessment was produced.\n\n")
	}

	if len(r.Sources) > 0 {
		sb.WriteString("## Sources\n\n")
		for _, src := range r.Sources {
			fmt.Fprintf(&sb, "%d. %s", src.Index, src.Title)
			if src.URL != "" {
				fmt.Fprintf(&sb, " <%s>", src.URL)
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	if len(r.CitationWarnings) > 0 {
		sb.WriteString("## Citation Warnings\n\n")
		for _, warning := range r.CitationWarnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
		sb.WriteByte('\n')
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
