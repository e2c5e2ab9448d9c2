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
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var citationMarkerPattern = regexp.MustCompile(`\[source\s+(\d+)\]`)

// A sentence at least this long that states a number and carries no citation
// marker draws an advisory warning. Tunable; never a gate.
const minUncitedAssertionRunes = 40

const warningExcerptRunes = 60

// CheckCitations scans a role's final answer against the collected sources.
// It flags markers referencing indices outside [1, len(sources)] and, as a
// best-effort heuristic, numeric assertions with no marker at all. Warnings
// are advisory: they are surfaced in the report and never block or mutate
// the answer.
func CheckCitations(text string, sources []Source) []string {
	var warnings []string

	for _, match := range citationMarkerPattern.FindAllStringSubmatch(text, -1) {
		index, err := strconv.Atoi(match[1])
		if err != nil || index < 1 || index > len(sources) {
			warnings = append(warnings, fmt.Sprintf(
				"citation marker %s references a source that does not exist (%d collected)",
				match[0], len(sources)))
		}
	}

	for _, sentence := range splitSentences(text) {
		if looksLikeUncitedAssertion(sentence) {
			warnings = append(warnings, fmt.Sprintf(
				"possible uncited assertion: %q", excerpt(sentence)))
		}
	}

	return warnings
}

// splitSentences cuts text at sentence punctuation followed by whitespace,
// so decimals like "26.3" stay intact. Newlines always end a sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder
	for i, r := range runes {
		current.WriteRune(r)
		endOfSentence := r == '\n'
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' {
				endOfSentence = true
			}
		}
		if endOfSentence {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func looksLikeUncitedAssertion(sentence string) bool {
	if utf8.RuneCountInString(sentence) < minUncitedAssertionRunes {
		return false
	}
	if citationMarkerPattern.MatchString(sentence) {
		return false
	}
	if strings.ContainsRune(sentence, '%') {
		return true
	}
	return strings.ContainsAny(sentence, "0123456789")
}

func excerpt(sentence string) string {
	runes := []rune(sentence)
	if len(runes) <= warningExcerptRunes {
		return sentence
	}
	return string(runes[:warningExcerptRunes]) + "..."
}
