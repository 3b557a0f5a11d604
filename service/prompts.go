package service

import (
	"fmt"
	"strings"

	"gdprlens-backend/models"
)

const violationSystemPrompt = "You are a GDPR compliance expert. Base every finding strictly on the " +
	"regulation text provided in the context; cite specific articles and never " +
	"invent provisions that are not in the context."

const violationPromptTemplate = `Based on the following context from GDPR regulations and guidelines, identify every potential compliance violation in the scenario.

CONTEXT:
%s

SCENARIO:
%s

For each violation found, output a block in exactly this format:

VIOLATION <number>:
Category: <GDPR category, e.g. "Data Subject Rights", "Consent Management">
Severity: <Critical, High, Medium, or Low>
Articles: <comma-separated GDPR articles, e.g. Article 6, Article 13>
Problematic Text: "<the exact scenario text that constitutes the violation>"
Description: <why this violates the cited articles>
Recommendation: <how to remediate>

List the most severe violations first. Output only violation blocks, no other text.`

// buildViolationPrompt assembles the generation prompt from the retained
// candidate set and the scenario.
func buildViolationPrompt(scenario string, candidates []models.Candidate) string {
	return fmt.Sprintf(violationPromptTemplate, formatContext(candidates), scenario)
}

// formatContext renders the candidate set as numbered source sections for
// the generation prompt. The exact same candidate slice must later feed the
// citation validator.
func formatContext(candidates []models.Candidate) string {
	if len(candidates) == 0 {
		return "(no relevant regulation text retrieved)"
	}

	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "[Source %d: %s", i+1, c.SourceDocument)
		if c.ArticleNumber != nil {
			fmt.Fprintf(&b, ", Article %d", *c.ArticleNumber)
		} else if c.RecitalNumber != nil {
			fmt.Fprintf(&b, ", Recital %d", *c.RecitalNumber)
		}
		b.WriteString("]\n")
		b.WriteString(c.Text)
		b.WriteString("\n")
		if i < len(candidates)-1 {
			b.WriteString("\n---\n")
		}
	}
	return b.String()
}
